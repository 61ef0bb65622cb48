package order

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDocument is the aggregate root for purchase and sale documents.
// It composes line items, payment splits, and the lifecycle state; stock
// effects are applied by the application layer through the stock ledger
// inside the same transaction scope.
type OrderDocument struct {
	shared.BaseAggregateRoot
	Kind           OrderKind       `gorm:"type:varchar(16);not null;index"`
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentDate   time.Time       `gorm:"not null"`
	DocumentNumber string          `gorm:"type:varchar(50)"`
	DeclaredTotal  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxIncluded    bool            `gorm:"not null;default:false"`
	Status         OrderStatus     `gorm:"type:varchar(16);not null;index"`
	CancelledAt    *time.Time

	Items    []LineItem     `gorm:"foreignKey:OrderID;references:ID"`
	Payments []PaymentSplit `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderDocument) TableName() string {
	return "order_documents"
}

// NewOrderDocument creates a new order document in the requested open state.
// Counterparty and warehouse existence is verified by the application layer
// against the external registries before the document is persisted.
func NewOrderDocument(kind OrderKind, counterpartyID, warehouseID uuid.UUID, documentDate time.Time, declaredTotal decimal.Decimal, status OrderStatus) (*OrderDocument, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("kind", "kind must be PURCHASE or SALE")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("counterparty_id", "counterparty ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse_id", "warehouse ID cannot be empty")
	}
	if documentDate.IsZero() {
		return nil, shared.NewValidationError("document_date", "document date is required")
	}
	if declaredTotal.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("declared_total", "declared total must be positive")
	}
	if status == "" {
		status = StatusPending
	}
	if !status.IsOpen() {
		return nil, shared.NewValidationError("status", "orders are created in PENDING or COMPLETED status")
	}

	return &OrderDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		CounterpartyID:    counterpartyID,
		WarehouseID:       warehouseID,
		DocumentDate:      documentDate,
		DeclaredTotal:     declaredTotal,
		Status:            status,
		Items:             make([]LineItem, 0),
		Payments:          make([]PaymentSplit, 0),
	}, nil
}

// EnsureMutable returns a StateConflictError when the document's current
// state forbids the given action. CANCELLED blocks everything.
func (o *OrderDocument) EnsureMutable(action string) error {
	if o.Status.IsTerminal() {
		return &shared.StateConflictError{
			OrderID: o.ID,
			Status:  o.Status.String(),
			Action:  action,
		}
	}
	return nil
}

// ReplaceItems swaps the full line-item set. The stock reversal for the
// outgoing set and the effect of the incoming set are the caller's
// responsibility, executed in the same transaction scope.
func (o *OrderDocument) ReplaceItems(items []LineItem) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	if len(items) == 0 {
		return shared.NewValidationError("items", "order must have at least one line item")
	}
	o.Items = items
	o.Touch()
	return nil
}

// ReplacePayments swaps the full payment-split set
func (o *OrderDocument) ReplacePayments(payments []PaymentSplit) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	if len(payments) == 0 {
		return shared.NewValidationError("payments", "order must have at least one payment split")
	}
	o.Payments = payments
	o.Touch()
	return nil
}

// ChangeWarehouse moves the document to another warehouse. Existing stock
// effects must be reversed against the original warehouse first.
func (o *OrderDocument) ChangeWarehouse(warehouseID uuid.UUID) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	if warehouseID == uuid.Nil {
		return shared.NewValidationError("warehouse_id", "warehouse ID cannot be empty")
	}
	o.WarehouseID = warehouseID
	o.Touch()
	return nil
}

// ChangeStatus transitions between the open states. CANCELLED is only
// reachable through Cancel so that the inverse stock effect is never
// skipped.
func (o *OrderDocument) ChangeStatus(target OrderStatus) error {
	if target == o.Status {
		return nil
	}
	if !target.IsValid() {
		return shared.NewValidationError("status", "status must be PENDING or COMPLETED")
	}
	if target == StatusCancelled {
		return shared.NewValidationError("status", "use cancel to transition into CANCELLED")
	}
	if !o.Status.CanTransitionTo(target) {
		return &shared.StateConflictError{
			OrderID: o.ID,
			Status:  o.Status.String(),
			Action:  "transition to " + target.String(),
		}
	}
	o.Status = target
	o.Touch()
	return nil
}

// SetDocumentNumber sets the external document number
func (o *OrderDocument) SetDocumentNumber(number string) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	if len(number) > 50 {
		return shared.NewValidationError("document_number", "document number cannot exceed 50 characters")
	}
	o.DocumentNumber = number
	o.Touch()
	return nil
}

// SetDocumentDate sets the business date of the document
func (o *OrderDocument) SetDocumentDate(date time.Time) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	if date.IsZero() {
		return shared.NewValidationError("document_date", "document date is required")
	}
	o.DocumentDate = date
	o.Touch()
	return nil
}

// SetDeclaredTotal sets the declared total; totals must be re-validated
// against items and payments before the change is committed.
func (o *OrderDocument) SetDeclaredTotal(total decimal.Decimal) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("declared_total", "declared total must be positive")
	}
	o.DeclaredTotal = total
	o.Touch()
	return nil
}

// SetTaxIncluded sets the tax flag
func (o *OrderDocument) SetTaxIncluded(included bool) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	o.TaxIncluded = included
	o.Touch()
	return nil
}

// SetCounterparty changes the supplier or customer reference
func (o *OrderDocument) SetCounterparty(counterpartyID uuid.UUID) error {
	if err := o.EnsureMutable("update"); err != nil {
		return err
	}
	if counterpartyID == uuid.Nil {
		return shared.NewValidationError("counterparty_id", "counterparty ID cannot be empty")
	}
	o.CounterpartyID = counterpartyID
	o.Touch()
	return nil
}

// Cancel transitions the document into the terminal CANCELLED state.
// Cancelling an already-cancelled document fails with a StateConflictError.
// The caller applies the inverse stock effect in the same scope.
func (o *OrderDocument) Cancel() error {
	if err := o.EnsureMutable("cancel"); err != nil {
		return err
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.Touch()
	return nil
}

// StockDirection returns the sign of the stock delta this document applied
// on creation; the inverse is applied on cancellation.
func (o *OrderDocument) StockDirection() int64 {
	return o.Kind.StockDirection()
}

// IsCancelled returns true if the document is in the terminal state
func (o *OrderDocument) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// IsCompleted returns true if the document is completed
func (o *OrderDocument) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// ItemCount returns the number of line items
func (o *OrderDocument) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all line-item quantities
func (o *OrderDocument) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// ItemForProduct returns the line item referencing the given product, or nil
func (o *OrderDocument) ItemForProduct(productID uuid.UUID) *LineItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}
