package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisExistenceStore implements ExistenceStore using Redis.
// This is suitable for distributed deployments where multiple instances
// should share the cached lookups.
type RedisExistenceStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisExistenceStore creates a new Redis-based existence store
func NewRedisExistenceStore(cfg RedisConfig) (*RedisExistenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisExistenceStore{
		client:    client,
		keyPrefix: "refdata:exists:",
	}, nil
}

// NewRedisExistenceStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisExistenceStoreWithClient(client *redis.Client, keyPrefix string) *RedisExistenceStore {
	if keyPrefix == "" {
		keyPrefix = "refdata:exists:"
	}
	return &RedisExistenceStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkExists records that the key exists, for the given TTL
func (s *RedisExistenceStore) MarkExists(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache existence: %w", err)
	}
	return nil
}

// Exists reports whether a non-expired positive entry is cached
func (s *RedisExistenceStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cached existence: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisExistenceStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisExistenceStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisExistenceStore implements ExistenceStore
var _ ExistenceStore = (*RedisExistenceStore)(nil)
