package order

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/backoffice/backend/internal/domain/order"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// DefaultTransactionTimeout bounds how long one unit of work may hold row
// locks before it is aborted.
const DefaultTransactionTimeout = 10 * time.Second

// Policy holds configurable engine behavior
type Policy struct {
	// LockCompleted makes COMPLETED orders immutable for update and
	// partial update. Cancellation stays allowed.
	LockCompleted bool
}

// OrderService implements the order-to-inventory consistency engine:
// creating, updating, and cancelling purchase and sale documents with
// atomic stock effects.
type OrderService struct {
	scope     TransactionScope
	parties   PartyRegistry
	refs      ReferenceData
	policy    Policy
	txTimeout time.Duration
}

// OrderServiceOption is a functional option for configuring the service
type OrderServiceOption func(*OrderService)

// WithPolicy sets the engine policy
func WithPolicy(policy Policy) OrderServiceOption {
	return func(s *OrderService) { s.policy = policy }
}

// WithTransactionTimeout bounds the duration of one atomic unit of work
func WithTransactionTimeout(timeout time.Duration) OrderServiceOption {
	return func(s *OrderService) {
		if timeout > 0 {
			s.txTimeout = timeout
		}
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope, parties PartyRegistry, refs ReferenceData, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		scope:     scope,
		parties:   parties,
		refs:      refs,
		txTimeout: DefaultTransactionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new purchase or sale document. Totals are reconciled and
// all references verified before anything is persisted; the document, its
// children, and the stock deltas commit in one transaction.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	doc, err := order.NewOrderDocument(req.Kind, req.CounterpartyID, req.WarehouseID, req.DocumentDate, req.DeclaredTotal, req.Status)
	if err != nil {
		return nil, err
	}
	if req.DocumentNumber != "" {
		if err := doc.SetDocumentNumber(req.DocumentNumber); err != nil {
			return nil, err
		}
	}
	if req.TaxIncluded {
		if err := doc.SetTaxIncluded(true); err != nil {
			return nil, err
		}
	}

	items, err := buildLineItems(doc.ID, req.Items)
	if err != nil {
		return nil, err
	}
	payments, err := buildPaymentSplits(doc.ID, req.Payments)
	if err != nil {
		return nil, err
	}

	if err := order.ValidateTotals(items, payments, req.DeclaredTotal); err != nil {
		return nil, err
	}
	if err := doc.ReplaceItems(items); err != nil {
		return nil, err
	}
	if err := doc.ReplacePayments(payments); err != nil {
		return nil, err
	}

	if err := s.verifyCounterparty(ctx, doc.Kind, doc.CounterpartyID); err != nil {
		return nil, err
	}
	if err := s.verifyWarehouse(ctx, doc.WarehouseID); err != nil {
		return nil, err
	}
	if err := s.verifyProducts(ctx, items); err != nil {
		return nil, err
	}
	if err := s.verifyPaymentMethods(ctx, payments); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := stock.NewLedger(repos.StockEntries(), repos.ProductTotals())

		for _, item := range doc.Items {
			if _, err := ledger.EnsureEntry(ctx, item.ProductID, doc.WarehouseID); err != nil {
				return err
			}
		}
		if doc.Kind == order.KindSale {
			if err := checkAvailability(ctx, ledger, doc.Items, doc.WarehouseID); err != nil {
				return err
			}
		}

		if err := repos.Orders().Create(ctx, doc); err != nil {
			return shared.NewInfrastructureError("persist order document", err)
		}

		return applyStockEffect(ctx, ledger, doc.Items, doc.WarehouseID, doc.StockDirection())
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(doc)
	return &resp, nil
}

// GetByID retrieves an order document with its items and payments
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToOrderResponse(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List retrieves order documents matching the filter, paginated
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Kind != nil {
		domainFilter.Filters["kind"] = string(*filter.Kind)
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.CounterpartyID != nil {
		domainFilter.Filters["counterparty_id"] = *filter.CounterpartyID
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	var docs []order.OrderDocument
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if docs, err = repos.Orders().FindAll(ctx, domainFilter); err != nil {
			return err
		}
		total, err = repos.Orders().Count(ctx, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToOrderListItemResponses(docs), total, nil
}

// Update replaces the document's scalar fields and, when supplied, its full
// line-item and payment-split sets. The old stock effect is reversed
// against the original warehouse and the new effect applied against the
// effective one, all in one transaction.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	return s.applyUpdate(ctx, id, func(*order.OrderDocument) (UpdateOrderRequest, error) {
		return req, nil
	})
}

// PartialUpdate merges an explicit patch into the document and then follows
// the same replace algorithm as Update for whichever fields are present.
func (s *OrderService) PartialUpdate(ctx context.Context, id uuid.UUID, patch OrderPatchRequest) (*OrderResponse, error) {
	if patch.IsEmpty() {
		return nil, shared.NewValidationError("patch", "patch carries no changes")
	}

	return s.applyUpdate(ctx, id, func(doc *order.OrderDocument) (UpdateOrderRequest, error) {
		req := UpdateOrderRequest{
			CounterpartyID: doc.CounterpartyID,
			WarehouseID:    doc.WarehouseID,
			DocumentDate:   doc.DocumentDate,
			DocumentNumber: doc.DocumentNumber,
			DeclaredTotal:  doc.DeclaredTotal,
			TaxIncluded:    doc.TaxIncluded,
			Status:         doc.Status,
		}
		if patch.CounterpartyID != nil {
			req.CounterpartyID = *patch.CounterpartyID
		}
		if patch.WarehouseID != nil {
			req.WarehouseID = *patch.WarehouseID
		}
		if patch.DocumentDate != nil {
			req.DocumentDate = *patch.DocumentDate
		}
		if patch.DocumentNumber != nil {
			req.DocumentNumber = *patch.DocumentNumber
		}
		if patch.DeclaredTotal != nil {
			req.DeclaredTotal = *patch.DeclaredTotal
		}
		if patch.TaxIncluded != nil {
			req.TaxIncluded = *patch.TaxIncluded
		}
		if patch.Status != nil {
			req.Status = *patch.Status
		}
		if patch.Items != nil {
			req.Items = *patch.Items
		}
		if patch.Payments != nil {
			req.Payments = *patch.Payments
		}
		return req, nil
	})
}

// Cancel transitions the document into the terminal CANCELLED state and
// applies the inverse stock effect: a sale cancellation restocks, a
// purchase cancellation destocks.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var resp OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := doc.Cancel(); err != nil {
			return err
		}

		ledger := stock.NewLedger(repos.StockEntries(), repos.ProductTotals())
		if err := applyStockEffect(ctx, ledger, doc.Items, doc.WarehouseID, -doc.StockDirection()); err != nil {
			return err
		}

		if err := repos.Orders().Update(ctx, doc); err != nil {
			return shared.NewInfrastructureError("persist order cancellation", err)
		}
		resp = ToOrderResponse(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// applyUpdate loads the document, derives the effective update request, and
// executes the two-phase replace algorithm in one transaction scope.
func (s *OrderService) applyUpdate(ctx context.Context, id uuid.UUID, build func(*order.OrderDocument) (UpdateOrderRequest, error)) (*OrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var resp OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ensureEditable(doc); err != nil {
			return err
		}

		req, err := build(doc)
		if err != nil {
			return err
		}

		originalWarehouse := doc.WarehouseID
		originalItems := make([]order.LineItem, len(doc.Items))
		copy(originalItems, doc.Items)

		itemsSupplied := req.Items != nil
		paymentsSupplied := req.Payments != nil

		newItems := originalItems
		if itemsSupplied {
			if newItems, err = buildLineItems(doc.ID, req.Items); err != nil {
				return err
			}
		}
		newPayments := doc.Payments
		if paymentsSupplied {
			if newPayments, err = buildPaymentSplits(doc.ID, req.Payments); err != nil {
				return err
			}
		}

		if err := order.ValidateTotals(newItems, newPayments, req.DeclaredTotal); err != nil {
			return err
		}

		if req.CounterpartyID != doc.CounterpartyID {
			if err := s.verifyCounterparty(ctx, doc.Kind, req.CounterpartyID); err != nil {
				return err
			}
			if err := doc.SetCounterparty(req.CounterpartyID); err != nil {
				return err
			}
		}
		warehouseChanged := req.WarehouseID != originalWarehouse
		if warehouseChanged {
			if err := s.verifyWarehouse(ctx, req.WarehouseID); err != nil {
				return err
			}
			if err := doc.ChangeWarehouse(req.WarehouseID); err != nil {
				return err
			}
		}
		if itemsSupplied {
			if err := s.verifyProducts(ctx, newItems); err != nil {
				return err
			}
		}
		if paymentsSupplied {
			if err := s.verifyPaymentMethods(ctx, newPayments); err != nil {
				return err
			}
		}

		if err := doc.SetDocumentDate(req.DocumentDate); err != nil {
			return err
		}
		if err := doc.SetDocumentNumber(req.DocumentNumber); err != nil {
			return err
		}
		if err := doc.SetDeclaredTotal(req.DeclaredTotal); err != nil {
			return err
		}
		if err := doc.SetTaxIncluded(req.TaxIncluded); err != nil {
			return err
		}
		if err := doc.ChangeStatus(req.Status); err != nil {
			return err
		}

		// Two-phase replace: reverse the old effect against the original
		// warehouse, swap the rows, apply the new effect against the
		// effective warehouse. Rollback of the enclosing transaction
		// undoes every step on failure.
		if itemsSupplied || warehouseChanged {
			ledger := stock.NewLedger(repos.StockEntries(), repos.ProductTotals())

			if err := applyStockEffect(ctx, ledger, originalItems, originalWarehouse, -doc.StockDirection()); err != nil {
				return err
			}
			if itemsSupplied {
				if err := doc.ReplaceItems(newItems); err != nil {
					return err
				}
				if err := repos.Orders().ReplaceItems(ctx, doc.ID, newItems); err != nil {
					return shared.NewInfrastructureError("replace line items", err)
				}
			}
			if doc.Kind == order.KindSale {
				if err := checkAvailability(ctx, ledger, doc.Items, doc.WarehouseID); err != nil {
					return err
				}
			}
			if err := applyStockEffect(ctx, ledger, doc.Items, doc.WarehouseID, doc.StockDirection()); err != nil {
				return err
			}
		}

		if paymentsSupplied {
			if err := doc.ReplacePayments(newPayments); err != nil {
				return err
			}
			if err := repos.Orders().ReplacePayments(ctx, doc.ID, newPayments); err != nil {
				return shared.NewInfrastructureError("replace payment splits", err)
			}
		}

		if err := repos.Orders().Update(ctx, doc); err != nil {
			return shared.NewInfrastructureError("persist order document", err)
		}
		resp = ToOrderResponse(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ensureEditable rejects mutation of cancelled documents and, when the
// policy locks completed documents, of completed ones too.
func (s *OrderService) ensureEditable(doc *order.OrderDocument) error {
	if err := doc.EnsureMutable("update"); err != nil {
		return err
	}
	if s.policy.LockCompleted && doc.IsCompleted() {
		return &shared.StateConflictError{
			OrderID: doc.ID,
			Status:  doc.Status.String(),
			Action:  "update",
		}
	}
	return nil
}

func (s *OrderService) verifyCounterparty(ctx context.Context, kind order.OrderKind, id uuid.UUID) error {
	var exists bool
	var err error
	var resource string
	if kind == order.KindSale {
		resource = "customer"
		exists, err = s.parties.CustomerExists(ctx, id)
	} else {
		resource = "supplier"
		exists, err = s.parties.SupplierExists(ctx, id)
	}
	if err != nil {
		return shared.NewInfrastructureError("verify counterparty", err)
	}
	if !exists {
		return shared.NewNotFoundError(resource, id)
	}
	return nil
}

func (s *OrderService) verifyWarehouse(ctx context.Context, id uuid.UUID) error {
	exists, err := s.refs.WarehouseExists(ctx, id)
	if err != nil {
		return shared.NewInfrastructureError("verify warehouse", err)
	}
	if !exists {
		return shared.NewNotFoundError("warehouse", id)
	}
	return nil
}

func (s *OrderService) verifyProducts(ctx context.Context, items []order.LineItem) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}

		exists, err := s.refs.ProductExists(ctx, item.ProductID)
		if err != nil {
			return shared.NewInfrastructureError("verify product", err)
		}
		if !exists {
			return shared.NewNotFoundError("product", item.ProductID)
		}
	}
	return nil
}

func (s *OrderService) verifyPaymentMethods(ctx context.Context, payments []order.PaymentSplit) error {
	seen := make(map[uuid.UUID]struct{}, len(payments))
	for _, split := range payments {
		if _, ok := seen[split.PaymentMethodID]; ok {
			continue
		}
		seen[split.PaymentMethodID] = struct{}{}

		valid, err := s.refs.PaymentMethodValid(ctx, split.PaymentMethodID)
		if err != nil {
			return shared.NewInfrastructureError("verify payment method", err)
		}
		if !valid {
			return shared.NewNotFoundError("payment method", split.PaymentMethodID)
		}
	}
	return nil
}

// buildLineItems constructs validated domain line items for an order
func buildLineItems(orderID uuid.UUID, reqs []LineItemRequest) ([]order.LineItem, error) {
	if len(reqs) == 0 {
		return nil, shared.NewValidationError("items", "order must have at least one line item")
	}
	items := make([]order.LineItem, 0, len(reqs))
	for _, req := range reqs {
		item, err := order.NewLineItem(orderID, req.ProductID, req.Quantity, req.UnitPrice, req.Subtotal)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// buildPaymentSplits constructs validated domain payment splits for an order
func buildPaymentSplits(orderID uuid.UUID, reqs []PaymentSplitRequest) ([]order.PaymentSplit, error) {
	if len(reqs) == 0 {
		return nil, shared.NewValidationError("payments", "order must have at least one payment split")
	}
	payments := make([]order.PaymentSplit, 0, len(reqs))
	for _, req := range reqs {
		split, err := order.NewPaymentSplit(orderID, req.PaymentMethodID, req.Amount, req.ReceiptID)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *split)
	}
	return payments, nil
}

// checkAvailability verifies every line item can be fulfilled from the
// warehouse before any decrement is applied.
func checkAvailability(ctx context.Context, ledger *stock.Ledger, items []order.LineItem, warehouseID uuid.UUID) error {
	needed := make(map[uuid.UUID]int64, len(items))
	for _, item := range items {
		needed[item.ProductID] += item.Quantity
	}
	for productID, qty := range needed {
		available, err := ledger.Available(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if available < qty {
			return &shared.InsufficientStockError{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Available:   available,
				Requested:   qty,
			}
		}
	}
	return nil
}

// applyStockEffect applies one document's stock deltas in the given
// direction: +1 increments quantity on hand, -1 decrements it. Rows are
// locked in ascending product order so concurrent documents touching the
// same products cannot deadlock.
func applyStockEffect(ctx context.Context, ledger *stock.Ledger, items []order.LineItem, warehouseID uuid.UUID, direction int64) error {
	sorted := make([]order.LineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].ProductID[:], sorted[j].ProductID[:]) < 0
	})

	for _, item := range sorted {
		var err error
		if direction > 0 {
			err = ledger.Increment(ctx, item.ProductID, warehouseID, item.Quantity)
		} else {
			err = ledger.Decrement(ctx, item.ProductID, warehouseID, item.Quantity)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
