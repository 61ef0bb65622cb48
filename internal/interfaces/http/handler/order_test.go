package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apporder "github.com/backoffice/backend/internal/application/order"
	"github.com/backoffice/backend/internal/domain/order"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/stock"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
)

// memOrders is a map-backed order.Repository for handler tests
type memOrders struct {
	docs map[uuid.UUID]*order.OrderDocument
}

func newMemOrders() *memOrders {
	return &memOrders{docs: make(map[uuid.UUID]*order.OrderDocument)}
}

func (r *memOrders) FindByID(_ context.Context, id uuid.UUID) (*order.OrderDocument, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, shared.NewNotFoundError("order document", id)
	}
	clone := *doc
	clone.Items = append([]order.LineItem(nil), doc.Items...)
	clone.Payments = append([]order.PaymentSplit(nil), doc.Payments...)
	return &clone, nil
}

func (r *memOrders) FindAll(_ context.Context, _ shared.Filter) ([]order.OrderDocument, error) {
	out := make([]order.OrderDocument, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (r *memOrders) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.docs)), nil
}

func (r *memOrders) Create(_ context.Context, doc *order.OrderDocument) error {
	clone := *doc
	r.docs[doc.ID] = &clone
	return nil
}

func (r *memOrders) Update(_ context.Context, doc *order.OrderDocument) error {
	stored, ok := r.docs[doc.ID]
	if !ok {
		return shared.NewNotFoundError("order document", doc.ID)
	}
	doc.IncrementVersion()
	clone := *doc
	clone.Items = stored.Items
	clone.Payments = stored.Payments
	r.docs[doc.ID] = &clone
	return nil
}

func (r *memOrders) ReplaceItems(_ context.Context, orderID uuid.UUID, items []order.LineItem) error {
	if doc, ok := r.docs[orderID]; ok {
		doc.Items = append([]order.LineItem(nil), items...)
	}
	return nil
}

func (r *memOrders) ReplacePayments(_ context.Context, orderID uuid.UUID, payments []order.PaymentSplit) error {
	if doc, ok := r.docs[orderID]; ok {
		doc.Payments = append([]order.PaymentSplit(nil), payments...)
	}
	return nil
}

// memEntries is a map-backed stock.EntryRepository
type memEntries struct {
	entries map[string]*stock.Entry
}

func newMemEntries() *memEntries {
	return &memEntries{entries: make(map[string]*stock.Entry)}
}

func stockKey(productID, warehouseID uuid.UUID) string {
	return productID.String() + "/" + warehouseID.String()
}

func (r *memEntries) Find(_ context.Context, productID, warehouseID uuid.UUID) (*stock.Entry, error) {
	entry, ok := r.entries[stockKey(productID, warehouseID)]
	if !ok {
		return nil, shared.NewNotFoundError("stock entry", productID)
	}
	return entry, nil
}

func (r *memEntries) LockForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.Entry, error) {
	return r.Find(ctx, productID, warehouseID)
}

func (r *memEntries) GetOrCreate(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.Entry, error) {
	if entry, err := r.Find(ctx, productID, warehouseID); err == nil {
		return entry, nil
	}
	entry, err := stock.NewEntry(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	r.entries[stockKey(productID, warehouseID)] = entry
	return entry, nil
}

func (r *memEntries) Save(_ context.Context, entry *stock.Entry) error {
	r.entries[stockKey(entry.ProductID, entry.WarehouseID)] = entry
	return nil
}

func (r *memEntries) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]stock.Entry, error) {
	var out []stock.Entry
	for _, entry := range r.entries {
		if entry.WarehouseID == warehouseID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *memEntries) FindByProduct(_ context.Context, productID uuid.UUID) ([]stock.Entry, error) {
	var out []stock.Entry
	for _, entry := range r.entries {
		if entry.ProductID == productID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

// memTotals is a map-backed stock.ProductTotalRepository
type memTotals struct {
	totals map[uuid.UUID]*stock.ProductTotal
}

func newMemTotals() *memTotals {
	return &memTotals{totals: make(map[uuid.UUID]*stock.ProductTotal)}
}

func (r *memTotals) Find(_ context.Context, productID uuid.UUID) (*stock.ProductTotal, error) {
	total, ok := r.totals[productID]
	if !ok {
		return nil, shared.NewNotFoundError("product total", productID)
	}
	return total, nil
}

func (r *memTotals) LockForUpdate(ctx context.Context, productID uuid.UUID) (*stock.ProductTotal, error) {
	return r.Find(ctx, productID)
}

func (r *memTotals) GetOrCreate(ctx context.Context, productID uuid.UUID) (*stock.ProductTotal, error) {
	if total, err := r.Find(ctx, productID); err == nil {
		return total, nil
	}
	total, err := stock.NewProductTotal(productID)
	if err != nil {
		return nil, err
	}
	r.totals[productID] = total
	return total, nil
}

func (r *memTotals) Save(_ context.Context, total *stock.ProductTotal) error {
	r.totals[total.ProductID] = total
	return nil
}

// stubRegistry accepts a fixed set of reference IDs
type stubRegistry struct {
	suppliers map[uuid.UUID]bool
	customers map[uuid.UUID]bool
	refs      map[uuid.UUID]bool
}

func (s *stubRegistry) SupplierExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.suppliers[id], nil
}

func (s *stubRegistry) CustomerExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.customers[id], nil
}

func (s *stubRegistry) WarehouseExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.refs[id], nil
}

func (s *stubRegistry) ProductExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.refs[id], nil
}

func (s *stubRegistry) PaymentMethodValid(_ context.Context, id uuid.UUID) (bool, error) {
	return s.refs[id], nil
}

type orderHandlerFixture struct {
	router    *gin.Engine
	entries   *memEntries
	supplier  uuid.UUID
	customer  uuid.UUID
	warehouse uuid.UUID
	product   uuid.UUID
	method    uuid.UUID
}

func newOrderHandlerFixture(t *testing.T) *orderHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	f := &orderHandlerFixture{
		entries:   newMemEntries(),
		supplier:  uuid.New(),
		customer:  uuid.New(),
		warehouse: uuid.New(),
		product:   uuid.New(),
		method:    uuid.New(),
	}

	registry := &stubRegistry{
		suppliers: map[uuid.UUID]bool{f.supplier: true},
		customers: map[uuid.UUID]bool{f.customer: true},
		refs:      map[uuid.UUID]bool{f.warehouse: true, f.product: true, f.method: true},
	}

	scope := apporder.NewNoOpTransactionScope(newMemOrders(), f.entries, newMemTotals())
	service := apporder.NewOrderService(scope, registry, registry)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	NewOrderHandler(service).RegisterRoutes(api)
	f.router = engine
	return f
}

func (f *orderHandlerFixture) seedStock(t *testing.T, qty int64) {
	t.Helper()
	entry, err := f.entries.GetOrCreate(context.Background(), f.product, f.warehouse)
	require.NoError(t, err)
	require.NoError(t, entry.Increase(qty))
}

func (f *orderHandlerFixture) purchaseRequest(qty int64, unitPrice string) apporder.CreateOrderRequest {
	price := decimal.RequireFromString(unitPrice)
	total := price.Mul(decimal.NewFromInt(qty))
	return apporder.CreateOrderRequest{
		Kind:           order.KindPurchase,
		CounterpartyID: f.supplier,
		WarehouseID:    f.warehouse,
		DocumentDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DeclaredTotal:  total,
		Items: []apporder.LineItemRequest{
			{ProductID: f.product, Quantity: qty, UnitPrice: price},
		},
		Payments: []apporder.PaymentSplitRequest{
			{PaymentMethodID: f.method, Amount: total},
		},
	}
}

func (f *orderHandlerFixture) saleRequest(qty int64, unitPrice string) apporder.CreateOrderRequest {
	req := f.purchaseRequest(qty, unitPrice)
	req.Kind = order.KindSale
	req.CounterpartyID = f.customer
	return req
}

func (f *orderHandlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	payload := decodeResponse(t, w)
	errInfo, ok := payload["error"].(map[string]any)
	require.True(t, ok, "expected error info in response: %s", w.Body.String())
	code, _ := errInfo["code"].(string)
	return code
}

func TestOrderHandler_CreatePurchase(t *testing.T) {
	f := newOrderHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/orders", f.purchaseRequest(4, "25.00"))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payload := decodeResponse(t, w)
	assert.Equal(t, true, payload["success"])

	data := payload["data"].(map[string]any)
	assert.Equal(t, "PURCHASE", data["kind"])
	assert.Equal(t, "PENDING", data["status"])
	assert.NotEmpty(t, data["id"])

	entry, err := f.entries.Find(context.Background(), f.product, f.warehouse)
	require.NoError(t, err)
	assert.Equal(t, int64(4), entry.QuantityOnHand)
}

func TestOrderHandler_CreateMalformedJSON(t *testing.T) {
	f := newOrderHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_BAD_REQUEST", errorCode(t, w))
}

func TestOrderHandler_CreateUnknownWarehouse(t *testing.T) {
	f := newOrderHandlerFixture(t)

	body := f.purchaseRequest(1, "10.00")
	body.WarehouseID = uuid.New()
	w := f.do(t, http.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_NOT_FOUND", errorCode(t, w))
}

func TestOrderHandler_CreateTotalsMismatch(t *testing.T) {
	f := newOrderHandlerFixture(t)

	body := f.purchaseRequest(2, "10.00")
	body.DeclaredTotal = decimal.RequireFromString("25.00")
	w := f.do(t, http.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ERR_TOTALS_MISMATCH", errorCode(t, w))
}

func TestOrderHandler_CreateSaleInsufficientStock(t *testing.T) {
	f := newOrderHandlerFixture(t)
	f.seedStock(t, 2)

	w := f.do(t, http.MethodPost, "/api/v1/orders", f.saleRequest(5, "10.00"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ERR_INSUFFICIENT_STOCK", errorCode(t, w))
}

func TestOrderHandler_GetByID(t *testing.T) {
	f := newOrderHandlerFixture(t)

	created := f.do(t, http.MethodPost, "/api/v1/orders", f.purchaseRequest(1, "10.00"))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeResponse(t, created)["data"].(map[string]any)["id"].(string)

	w := f.do(t, http.MethodGet, "/api/v1/orders/"+id, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, id, data["id"])
	assert.Len(t, data["items"], 1)
}

func TestOrderHandler_GetByID_NotFound(t *testing.T) {
	f := newOrderHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_NOT_FOUND", errorCode(t, w))
}

func TestOrderHandler_GetByID_InvalidID(t *testing.T) {
	f := newOrderHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/orders/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_List(t *testing.T) {
	f := newOrderHandlerFixture(t)

	for i := 0; i < 3; i++ {
		w := f.do(t, http.MethodPost, "/api/v1/orders", f.purchaseRequest(1, "10.00"))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(t, http.MethodGet, "/api/v1/orders?kind=PURCHASE&page=1&page_size=20", nil)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeResponse(t, w)
	meta := payload["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["total"])
	assert.Len(t, payload["data"], 3)
}

func TestOrderHandler_List_RejectsBadKind(t *testing.T) {
	f := newOrderHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/orders?kind=RETURN", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", errorCode(t, w))

	payload := decodeResponse(t, w)
	errInfo := payload["error"].(map[string]any)
	details, ok := errInfo["details"].([]any)
	require.True(t, ok, "expected field details: %s", w.Body.String())
	require.Len(t, details, 1)
	detail := details[0].(map[string]any)
	assert.Equal(t, "kind", detail["field"])
}

func TestOrderHandler_Patch(t *testing.T) {
	f := newOrderHandlerFixture(t)

	created := f.do(t, http.MethodPost, "/api/v1/orders", f.purchaseRequest(1, "10.00"))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeResponse(t, created)["data"].(map[string]any)["id"].(string)

	w := f.do(t, http.MethodPatch, "/api/v1/orders/"+id, map[string]any{
		"document_number": "PO-2026-0042",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, "PO-2026-0042", data["document_number"])
}

func TestOrderHandler_Patch_EmptyBody(t *testing.T) {
	f := newOrderHandlerFixture(t)

	created := f.do(t, http.MethodPost, "/api/v1/orders", f.purchaseRequest(1, "10.00"))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeResponse(t, created)["data"].(map[string]any)["id"].(string)

	w := f.do(t, http.MethodPatch, "/api/v1/orders/"+id, map[string]any{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ERR_VALIDATION", errorCode(t, w))
}

func TestOrderHandler_Cancel(t *testing.T) {
	f := newOrderHandlerFixture(t)
	f.seedStock(t, 10)

	created := f.do(t, http.MethodPost, "/api/v1/orders", f.saleRequest(4, "10.00"))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeResponse(t, created)["data"].(map[string]any)["id"].(string)

	entry, err := f.entries.Find(context.Background(), f.product, f.warehouse)
	require.NoError(t, err)
	require.Equal(t, int64(6), entry.QuantityOnHand)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/cancel", id), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, "CANCELLED", data["status"])
	assert.NotNil(t, data["cancelled_at"])

	entry, err = f.entries.Find(context.Background(), f.product, f.warehouse)
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.QuantityOnHand)
}

func TestOrderHandler_Cancel_Twice(t *testing.T) {
	f := newOrderHandlerFixture(t)
	f.seedStock(t, 10)

	created := f.do(t, http.MethodPost, "/api/v1/orders", f.saleRequest(2, "10.00"))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeResponse(t, created)["data"].(map[string]any)["id"].(string)

	first := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/cancel", id), nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/cancel", id), nil)

	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "ERR_STATE_CONFLICT", errorCode(t, second))
}

func TestOrderHandler_ResponseCarriesRequestID(t *testing.T) {
	f := newOrderHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
	req.Header.Set("X-Request-ID", "req-1234")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-1234", w.Header().Get("X-Request-ID"))

	payload := decodeResponse(t, w)
	errInfo := payload["error"].(map[string]any)
	assert.Equal(t, "req-1234", errInfo["request_id"])
}
