package stock

import (
	"errors"
	"testing"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("starts at zero", func(t *testing.T) {
		entry, err := NewEntry(uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(0), entry.QuantityOnHand)
	})

	t.Run("rejects empty references", func(t *testing.T) {
		_, err := NewEntry(uuid.Nil, uuid.New())
		assert.True(t, shared.IsValidation(err))

		_, err = NewEntry(uuid.New(), uuid.Nil)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestEntry_IncreaseDecrease(t *testing.T) {
	entry, err := NewEntry(uuid.New(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, entry.Increase(10))
	assert.Equal(t, int64(10), entry.QuantityOnHand)

	require.NoError(t, entry.Decrease(4))
	assert.Equal(t, int64(6), entry.QuantityOnHand)

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		assert.True(t, shared.IsValidation(entry.Increase(0)))
		assert.True(t, shared.IsValidation(entry.Decrease(-1)))
	})
}

func TestEntry_DecreaseBelowZero(t *testing.T) {
	entry, err := NewEntry(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, entry.Increase(12))

	err = entry.Decrease(20)
	require.Error(t, err)

	var insufficient *shared.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(12), insufficient.Available)
	assert.Equal(t, int64(20), insufficient.Requested)

	// no partial decrement
	assert.Equal(t, int64(12), entry.QuantityOnHand)
}

func TestEntry_CanFulfill(t *testing.T) {
	entry, err := NewEntry(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, entry.Increase(5))

	assert.True(t, entry.CanFulfill(5))
	assert.False(t, entry.CanFulfill(6))
}

func TestProductTotal_Apply(t *testing.T) {
	total, err := NewProductTotal(uuid.New())
	require.NoError(t, err)

	require.NoError(t, total.Apply(15))
	require.NoError(t, total.Apply(-5))
	assert.Equal(t, int64(10), total.TotalOnHand)

	t.Run("refuses to drift negative", func(t *testing.T) {
		err := total.Apply(-11)
		require.Error(t, err)
		assert.Equal(t, int64(10), total.TotalOnHand)
	})
}
