package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apporder "github.com/backoffice/backend/internal/application/order"
	appstock "github.com/backoffice/backend/internal/application/stock"
	"github.com/backoffice/backend/internal/domain/order"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
)

type engineFixture struct {
	orders   *apporder.OrderService
	stock    *appstock.StockQueryService
	db       *gorm.DB
	supplier uuid.UUID
	customer uuid.UUID
	wh       uuid.UUID
	wh2      uuid.UUID
	product  uuid.UUID
	method   uuid.UUID
}

func newEngineFixture(t *testing.T, db *TestDB) *engineFixture {
	t.Helper()

	f := &engineFixture{
		db:       db.DB,
		supplier: uuid.New(),
		customer: uuid.New(),
		wh:       uuid.New(),
		wh2:      uuid.New(),
		product:  uuid.New(),
		method:   uuid.New(),
	}

	seedReference := func(model any) {
		require.NoError(t, db.DB.Create(model).Error)
	}
	seedReference(&persistence.Supplier{BaseEntity: baseEntityWithID(f.supplier), Code: "SUP-1", Name: "Acme Supply", Active: true})
	seedReference(&persistence.Customer{BaseEntity: baseEntityWithID(f.customer), Code: "CUS-1", Name: "Northwind", Active: true})
	seedReference(&persistence.Warehouse{BaseEntity: baseEntityWithID(f.wh), Code: "WH-1", Name: "Main", Active: true})
	seedReference(&persistence.Warehouse{BaseEntity: baseEntityWithID(f.wh2), Code: "WH-2", Name: "Overflow", Active: true})
	seedReference(&persistence.Product{BaseEntity: baseEntityWithID(f.product), Code: "SKU-1", Name: "Widget", Active: true})
	seedReference(&persistence.PaymentMethod{BaseEntity: baseEntityWithID(f.method), Code: "CASH", Name: "Cash", Enabled: true})

	scope := persistence.NewGormTransactionScope(db.DB)
	parties := persistence.NewGormPartyRegistry(db.DB)
	refs := persistence.NewGormReferenceData(db.DB)

	f.orders = apporder.NewOrderService(scope, parties, refs)
	f.stock = appstock.NewStockQueryService(
		persistence.NewGormStockEntryRepository(db.DB),
		persistence.NewGormProductTotalRepository(db.DB),
	)
	return f
}

func baseEntityWithID(id uuid.UUID) shared.BaseEntity {
	e := shared.NewBaseEntity()
	e.ID = id
	return e
}

func (f *engineFixture) purchase(qty int64, price string) apporder.CreateOrderRequest {
	unitPrice := decimal.RequireFromString(price)
	total := unitPrice.Mul(decimal.NewFromInt(qty))
	return apporder.CreateOrderRequest{
		Kind:           order.KindPurchase,
		CounterpartyID: f.supplier,
		WarehouseID:    f.wh,
		DocumentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DeclaredTotal:  total,
		Items: []apporder.LineItemRequest{
			{ProductID: f.product, Quantity: qty, UnitPrice: unitPrice},
		},
		Payments: []apporder.PaymentSplitRequest{
			{PaymentMethodID: f.method, Amount: total},
		},
	}
}

func (f *engineFixture) sale(qty int64, price string) apporder.CreateOrderRequest {
	req := f.purchase(qty, price)
	req.Kind = order.KindSale
	req.CounterpartyID = f.customer
	return req
}

func (f *engineFixture) onHand(t *testing.T, warehouseID uuid.UUID) int64 {
	t.Helper()
	resp, err := f.stock.GetOnHand(context.Background(), f.product, warehouseID)
	require.NoError(t, err)
	return resp.QuantityOnHand
}

func (f *engineFixture) total(t *testing.T) int64 {
	t.Helper()
	resp, err := f.stock.GetProductTotal(context.Background(), f.product)
	require.NoError(t, err)
	return resp.TotalOnHand
}

func TestOrderFlow_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := NewTestDB(t)
	f := newEngineFixture(t, db)
	ctx := context.Background()

	// Purchase stocks the warehouse
	created, err := f.orders.Create(ctx, f.purchase(10, "4.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.onHand(t, f.wh))
	assert.Equal(t, int64(10), f.total(t))

	// Sale draws it down
	sale, err := f.orders.Create(ctx, f.sale(3, "6.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.onHand(t, f.wh))
	assert.Equal(t, int64(7), f.total(t))

	// Oversell is refused and leaves stock untouched
	_, err = f.orders.Create(ctx, f.sale(50, "6.00"))
	require.Error(t, err)
	assert.True(t, shared.IsInsufficientStock(err))
	assert.Equal(t, int64(7), f.onHand(t, f.wh))

	// Quantity change nets the stock delta
	price := decimal.RequireFromString("6.00")
	newTotal := price.Mul(decimal.NewFromInt(5))
	_, err = f.orders.Update(ctx, sale.ID, apporder.UpdateOrderRequest{
		CounterpartyID: f.customer,
		WarehouseID:    f.wh,
		DocumentDate:   sale.DocumentDate,
		DeclaredTotal:  newTotal,
		Status:         order.StatusPending,
		Items: []apporder.LineItemRequest{
			{ProductID: f.product, Quantity: 5, UnitPrice: price},
		},
		Payments: []apporder.PaymentSplitRequest{
			{PaymentMethodID: f.method, Amount: newTotal},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.onHand(t, f.wh))

	// Moving the purchase to another warehouse is refused: the sale
	// already consumed part of its stock, so reversing the purchase
	// would drive the original warehouse negative.
	purchaseTotal := decimal.RequireFromString("40.00")
	_, err = f.orders.Update(ctx, created.ID, apporder.UpdateOrderRequest{
		CounterpartyID: f.supplier,
		WarehouseID:    f.wh2,
		DocumentDate:   created.DocumentDate,
		DeclaredTotal:  purchaseTotal,
		Status:         order.StatusPending,
	})
	require.Error(t, err)
	assert.True(t, shared.IsInsufficientStock(err))
	assert.Equal(t, int64(5), f.onHand(t, f.wh))
	assert.Equal(t, int64(0), f.onHand(t, f.wh2))

	// Cancelling the sale restores its stock
	cancelled, err := f.orders.Cancel(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, int64(10), f.total(t))

	// Cancelled documents are immutable
	_, err = f.orders.Cancel(ctx, sale.ID)
	assert.True(t, shared.IsStateConflict(err))
}

func TestOrderFlow_ConcurrentSalesNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := NewTestDB(t)
	f := newEngineFixture(t, db)
	ctx := context.Background()

	const seeded = 10
	const perSale = 3
	const attempts = 7

	_, err := f.orders.Create(ctx, f.purchase(seeded, "1.00"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.Create(ctx, f.sale(perSale, "2.00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, shared.IsInsufficientStock(err), "unexpected error: %v", err)
	}

	// Row locks serialize the decrements: exactly floor(10/3) sales fit
	assert.Equal(t, seeded/perSale, succeeded)
	assert.Equal(t, int64(seeded%perSale), f.onHand(t, f.wh))
}
