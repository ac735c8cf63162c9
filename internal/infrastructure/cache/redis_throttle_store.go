package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopcore/backend/internal/domain/shared"
)

const defaultThrottleKeyPrefix = "shop:throttle:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisThrottleStore implements ThrottleStore using Redis.
// It lets every instance of the service share alert suppression state.
type RedisThrottleStore struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
}

// NewRedisThrottleStore creates a new Redis-based throttle store
func NewRedisThrottleStore(cfg RedisConfig) (*RedisThrottleStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisThrottleStore{
		client:     client,
		ownsClient: true,
		keyPrefix:  defaultThrottleKeyPrefix,
	}, nil
}

// NewRedisThrottleStoreWithClient creates a store with an existing Redis client.
// The caller keeps ownership of the client.
func NewRedisThrottleStoreWithClient(client *redis.Client, keyPrefix string) *RedisThrottleStore {
	if keyPrefix == "" {
		keyPrefix = defaultThrottleKeyPrefix
	}
	return &RedisThrottleStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// LastRun returns when key was last marked, or the zero time if never or expired
func (s *RedisThrottleStore) LastRun(ctx context.Context, key string) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read throttle key: %w", err)
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt throttle value for %s: %w", key, err)
	}
	return time.Unix(0, nanos), nil
}

// Mark stores at as the last run of key, expiring after ttl
func (s *RedisThrottleStore) Mark(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, strconv.FormatInt(at.UnixNano(), 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark throttle key: %w", err)
	}
	return nil
}

// Close closes the Redis client if the store created it
func (s *RedisThrottleStore) Close() error {
	if !s.ownsClient {
		return nil
	}
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisThrottleStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisThrottleStore implements ThrottleStore
var _ shared.ThrottleStore = (*RedisThrottleStore)(nil)
