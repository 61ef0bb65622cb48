package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/infrastructure/config"
)

func TestExistenceStoreFactory_CreateInMemoryStore(t *testing.T) {
	factory := NewExistenceStoreFactory(config.RedisConfig{})

	store := factory.CreateInMemoryStore()
	require.NotNil(t, store)
	defer store.Close()

	_, ok := store.(*InMemoryExistenceStore)
	assert.True(t, ok)
}

func TestExistenceStoreFactory_FallsBackWhenRedisUnreachable(t *testing.T) {
	cfg := config.RedisConfig{
		Host: "127.0.0.1",
		Port: 1, // nothing listens here
	}
	factory := NewExistenceStoreFactory(cfg, WithLogger(zap.NewNop()))

	store, err := factory.CreateStore()
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*InMemoryExistenceStore)
	assert.True(t, ok, "unreachable Redis should fall back to the in-memory store")
}

func TestExistenceStoreFactory_NoFallbackSurfacesError(t *testing.T) {
	cfg := config.RedisConfig{
		Host: "127.0.0.1",
		Port: 1,
	}
	factory := NewExistenceStoreFactory(cfg, WithInMemoryFallback(false))

	store, err := factory.CreateStore()
	require.Error(t, err)
	assert.Nil(t, store)
}
