package cache

import (
	"fmt"
	"io"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ThrottleStore is an alert throttle that holds a connection or a sweeper
// goroutine and must be closed on shutdown
type ThrottleStore interface {
	shared.ThrottleStore
	io.Closer
}

// OpenThrottleStore returns the Redis throttle when Redis is enabled and
// reachable. Otherwise alerts are throttled in process memory, unless
// cfg.Required forbids it.
func OpenThrottleStore(cfg config.RedisConfig, log *zap.Logger) (ThrottleStore, error) {
	if !cfg.Enabled {
		log.Info("Redis disabled, throttling stock alerts in memory")
		return NewInMemoryThrottleStore(), nil
	}

	store, err := NewRedisThrottleStore(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err == nil {
		log.Info("throttling stock alerts in Redis", zap.String("addr", cfg.Addr()))
		return store, nil
	}
	if cfg.Required {
		return nil, fmt.Errorf("redis.required is set but %s is unreachable: %w", cfg.Addr(), err)
	}

	// each instance now keeps its own marks, so a low stock alert may be
	// reported as new once per instance within a window
	log.Warn("Redis unreachable, throttling stock alerts in memory",
		zap.String("addr", cfg.Addr()),
		zap.Error(err),
	)
	return NewInMemoryThrottleStore(), nil
}
