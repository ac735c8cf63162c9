package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopcore/backend/internal/domain/shared"
)

// throttleEntry is the last run of a key and when it stops counting
type throttleEntry struct {
	lastRun   time.Time
	expiresAt time.Time
}

// InMemoryThrottleStore implements ThrottleStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryThrottleStore struct {
	mu        sync.RWMutex
	entries   map[string]throttleEntry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryThrottleStore creates a new in-memory throttle store.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryThrottleStore() *InMemoryThrottleStore {
	store := &InMemoryThrottleStore{
		entries:  make(map[string]throttleEntry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// LastRun returns when key was last marked, or the zero time if never or expired
func (s *InMemoryThrottleStore) LastRun(ctx context.Context, key string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists || !s.now().Before(e.expiresAt) {
		return time.Time{}, nil
	}
	return e.lastRun, nil
}

// Mark stores at as the last run of key, expiring after ttl
func (s *InMemoryThrottleStore) Mark(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = throttleEntry{
		lastRun:   at,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Size returns the number of stored entries, expired ones included until cleanup
func (s *InMemoryThrottleStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine
func (s *InMemoryThrottleStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryThrottleStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

// cleanup removes all expired entries
func (s *InMemoryThrottleStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Ensure InMemoryThrottleStore implements ThrottleStore
var _ shared.ThrottleStore = (*InMemoryThrottleStore)(nil)
