package testutil

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/shopcore/backend/internal/domain/shared"
)

// MockEventHandler records every event it receives.
type MockEventHandler struct {
	eventTypes []string

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	return nil
}

// Handled returns a copy of the events received so far, in arrival order.
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.handled)
}

func (h *MockEventHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// WaitForEventCount polls until handler has seen at least n events and
// reports whether that happened before timeout.
func WaitForEventCount(t *testing.T, handler *MockEventHandler, n int, timeout time.Duration) bool {
	t.Helper()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)
	for handler.count() < n {
		select {
		case <-ticker.C:
		case <-deadline:
			return false
		}
	}
	return true
}
