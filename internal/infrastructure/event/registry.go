package event

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/shopcore/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to handlers. Changes swap in a new
// snapshot so dispatch never blocks on a subscribe, and a handler may
// unsubscribe itself while it runs.
type HandlerRegistry struct {
	mu   sync.Mutex
	subs atomic.Pointer[subscriptions]
}

type subscriptions struct {
	byType map[string][]shared.EventHandler
	all    []shared.EventHandler // catch-all handlers
}

func NewHandlerRegistry() *HandlerRegistry {
	r := &HandlerRegistry{}
	r.subs.Store(&subscriptions{byType: map[string][]shared.EventHandler{}})
	return r
}

// Register subscribes h to eventTypes, or to every event when none are given
func (r *HandlerRegistry) Register(h shared.EventHandler, eventTypes ...string) {
	r.update(func(s *subscriptions) {
		if len(eventTypes) == 0 {
			s.all = append(s.all, h)
			return
		}
		for _, t := range eventTypes {
			s.byType[t] = append(s.byType[t], h)
		}
	})
}

// Unregister removes every subscription of h
func (r *HandlerRegistry) Unregister(h shared.EventHandler) {
	is := func(other shared.EventHandler) bool { return other == h }
	r.update(func(s *subscriptions) {
		s.all = slices.DeleteFunc(s.all, is)
		for t, hs := range s.byType {
			if hs = slices.DeleteFunc(hs, is); len(hs) == 0 {
				delete(s.byType, t)
			} else {
				s.byType[t] = hs
			}
		}
	})
}

// Handlers returns the handlers of eventType followed by the catch-all ones
func (r *HandlerRegistry) Handlers(eventType string) []shared.EventHandler {
	s := r.subs.Load()
	return slices.Concat(s.byType[eventType], s.all)
}

// EventTypes lists the event types with at least one dedicated handler
func (r *HandlerRegistry) EventTypes() []string {
	s := r.subs.Load()
	types := make([]string, 0, len(s.byType))
	for t := range s.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func (r *HandlerRegistry) update(fn func(*subscriptions)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.subs.Load()
	next := &subscriptions{
		byType: make(map[string][]shared.EventHandler, len(cur.byType)),
		all:    slices.Clone(cur.all),
	}
	for t, hs := range cur.byType {
		next.byType[t] = slices.Clone(hs)
	}
	fn(next)
	r.subs.Store(next)
}
