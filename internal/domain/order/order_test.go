package order

import (
	"errors"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T, kind OrderKind) *OrderDocument {
	t.Helper()
	doc, err := NewOrderDocument(kind, uuid.New(), uuid.New(), time.Now(), decimal.NewFromInt(100), StatusPending)
	require.NoError(t, err)
	return doc
}

func TestNewOrderDocument(t *testing.T) {
	counterpartyID := uuid.New()
	warehouseID := uuid.New()
	total := decimal.NewFromInt(250)

	t.Run("creates pending sale", func(t *testing.T) {
		doc, err := NewOrderDocument(KindSale, counterpartyID, warehouseID, time.Now(), total, StatusPending)
		require.NoError(t, err)
		assert.Equal(t, KindSale, doc.Kind)
		assert.Equal(t, StatusPending, doc.Status)
		assert.Equal(t, int64(-1), doc.StockDirection())
	})

	t.Run("creates completed purchase on request", func(t *testing.T) {
		doc, err := NewOrderDocument(KindPurchase, counterpartyID, warehouseID, time.Now(), total, StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, doc.Status)
		assert.Equal(t, int64(1), doc.StockDirection())
	})

	t.Run("rejects creation directly into cancelled", func(t *testing.T) {
		_, err := NewOrderDocument(KindSale, counterpartyID, warehouseID, time.Now(), total, StatusCancelled)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewOrderDocument(OrderKind("SWAP"), counterpartyID, warehouseID, time.Now(), total, StatusPending)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects non-positive declared total", func(t *testing.T) {
		_, err := NewOrderDocument(KindSale, counterpartyID, warehouseID, time.Now(), decimal.Zero, StatusPending)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects empty references", func(t *testing.T) {
		_, err := NewOrderDocument(KindSale, uuid.Nil, warehouseID, time.Now(), total, StatusPending)
		assert.True(t, shared.IsValidation(err))

		_, err = NewOrderDocument(KindSale, counterpartyID, uuid.Nil, time.Now(), total, StatusPending)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestOrderDocument_Cancel(t *testing.T) {
	t.Run("cancels an open order", func(t *testing.T) {
		doc := createTestOrder(t, KindSale)
		require.NoError(t, doc.Cancel())
		assert.Equal(t, StatusCancelled, doc.Status)
		assert.NotNil(t, doc.CancelledAt)
	})

	t.Run("cancels a completed order", func(t *testing.T) {
		doc := createTestOrder(t, KindPurchase)
		require.NoError(t, doc.ChangeStatus(StatusCompleted))
		require.NoError(t, doc.Cancel())
		assert.Equal(t, StatusCancelled, doc.Status)
	})

	t.Run("double cancel fails with state conflict", func(t *testing.T) {
		doc := createTestOrder(t, KindSale)
		require.NoError(t, doc.Cancel())

		err := doc.Cancel()
		require.Error(t, err)

		var conflict *shared.StateConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, doc.ID, conflict.OrderID)
		assert.Equal(t, "cancel", conflict.Action)
	})
}

func TestOrderDocument_CancelledIsImmutable(t *testing.T) {
	doc := createTestOrder(t, KindSale)
	require.NoError(t, doc.Cancel())

	items := testItems(t, doc.ID, 100)
	payments := testPayments(t, doc.ID, 100)

	assert.True(t, shared.IsStateConflict(doc.ReplaceItems(items)))
	assert.True(t, shared.IsStateConflict(doc.ReplacePayments(payments)))
	assert.True(t, shared.IsStateConflict(doc.ChangeWarehouse(uuid.New())))
	assert.True(t, shared.IsStateConflict(doc.SetDocumentNumber("DOC-1")))
	assert.True(t, shared.IsStateConflict(doc.SetDeclaredTotal(decimal.NewFromInt(5))))
	assert.True(t, shared.IsStateConflict(doc.SetCounterparty(uuid.New())))
	assert.True(t, shared.IsStateConflict(doc.SetDocumentDate(time.Now())))
	assert.True(t, shared.IsStateConflict(doc.SetTaxIncluded(true)))
}

func TestOrderDocument_ChangeStatus(t *testing.T) {
	t.Run("moves between open states", func(t *testing.T) {
		doc := createTestOrder(t, KindSale)
		require.NoError(t, doc.ChangeStatus(StatusCompleted))
		assert.Equal(t, StatusCompleted, doc.Status)
		require.NoError(t, doc.ChangeStatus(StatusPending))
		assert.Equal(t, StatusPending, doc.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		doc := createTestOrder(t, KindSale)
		assert.NoError(t, doc.ChangeStatus(StatusPending))
	})

	t.Run("refuses cancellation through status change", func(t *testing.T) {
		doc := createTestOrder(t, KindSale)
		err := doc.ChangeStatus(StatusCancelled)
		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, StatusPending, doc.Status)
	})

	t.Run("empty status is a validation error", func(t *testing.T) {
		doc := createTestOrder(t, KindSale)
		err := doc.ChangeStatus("")
		assert.True(t, shared.IsValidation(err))
		assert.False(t, shared.IsStateConflict(err))
		assert.Equal(t, StatusPending, doc.Status)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		doc := createTestOrder(t, KindSale)
		err := doc.ChangeStatus("SHIPPED")
		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, StatusPending, doc.Status)
	})
}

func TestOrderDocument_ReplaceItems(t *testing.T) {
	doc := createTestOrder(t, KindPurchase)

	t.Run("replaces the full set", func(t *testing.T) {
		first := testItems(t, doc.ID, 40, 60)
		require.NoError(t, doc.ReplaceItems(first))
		assert.Equal(t, 2, doc.ItemCount())

		second := testItems(t, doc.ID, 100)
		require.NoError(t, doc.ReplaceItems(second))
		assert.Equal(t, 1, doc.ItemCount())
	})

	t.Run("rejects empty set", func(t *testing.T) {
		err := doc.ReplaceItems(nil)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestOrderDocument_TotalQuantity(t *testing.T) {
	doc := createTestOrder(t, KindSale)
	productA := uuid.New()

	itemA, err := NewLineItem(doc.ID, productA, 3, decimal.NewFromInt(10), nil)
	require.NoError(t, err)
	itemB, err := NewLineItem(doc.ID, uuid.New(), 7, decimal.NewFromInt(10), nil)
	require.NoError(t, err)

	require.NoError(t, doc.ReplaceItems([]LineItem{*itemA, *itemB}))

	assert.Equal(t, int64(10), doc.TotalQuantity())
	require.NotNil(t, doc.ItemForProduct(productA))
	assert.Equal(t, int64(3), doc.ItemForProduct(productA).Quantity)
	assert.Nil(t, doc.ItemForProduct(uuid.New()))
}
