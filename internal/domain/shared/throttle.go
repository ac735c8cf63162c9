package shared

import (
	"context"
	"time"
)

// ThrottleStore remembers when a keyed action last ran so repeated
// notifications can be suppressed inside a window.
type ThrottleStore interface {
	// LastRun returns the time the key was last marked, or the zero time.
	LastRun(ctx context.Context, key string) (time.Time, error)

	// Mark records now as the last run of key. The entry expires after ttl.
	Mark(ctx context.Context, key string, at time.Time, ttl time.Duration) error

	// Close releases resources held by the store
	Close() error
}

// DefaultThrottleWindow is how long a stock alert stays suppressed
const DefaultThrottleWindow = 24 * time.Hour
