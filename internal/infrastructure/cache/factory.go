package cache

import (
	"fmt"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ExistenceStoreFactory creates existence stores based on configuration
type ExistenceStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ExistenceStoreFactoryOption is a functional option for configuring the factory
type ExistenceStoreFactoryOption func(*ExistenceStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ExistenceStoreFactoryOption {
	return func(f *ExistenceStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) ExistenceStoreFactoryOption {
	return func(f *ExistenceStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewExistenceStoreFactory creates a new factory
func NewExistenceStoreFactory(cfg config.RedisConfig, opts ...ExistenceStoreFactoryOption) *ExistenceStoreFactory {
	f := &ExistenceStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based existence store
func (f *ExistenceStoreFactory) CreateRedisStore() (ExistenceStore, error) {
	store, err := NewRedisExistenceStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis existence store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory existence store.
// In-memory stores do not share state across process instances, so
// different instances may hit the master-data tables independently; the
// result stays correct either way.
func (f *ExistenceStoreFactory) CreateInMemoryStore() ExistenceStore {
	return NewInMemoryExistenceStore()
}

// CreateStore creates an existence store based on whether Redis is available.
// It tries Redis first, and falls back to in-memory if Redis is not available
// and the fallback is allowed.
func (f *ExistenceStoreFactory) CreateStore() (ExistenceStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis existence store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for reference cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory existence store",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
