package order

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents one product position in an order document.
// The subtotal is recomputed from quantity and unit price; a declared
// subtotal that does not match is rejected rather than trusted.
type LineItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "order_line_items"
}

// NewLineItem creates a validated line item for an order.
// If declaredSubtotal is non-nil it must match quantity x unitPrice within
// Epsilon; otherwise the computed subtotal is used.
func NewLineItem(orderID, productID uuid.UUID, quantity int64, unitPrice decimal.Decimal, declaredSubtotal *decimal.Decimal) (*LineItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("order_id", "order ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity", "quantity must be a positive integer")
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("unit_price", "unit price must be positive")
	}

	subtotal := decimal.NewFromInt(quantity).Mul(unitPrice)
	if declaredSubtotal != nil && declaredSubtotal.Sub(subtotal).Abs().GreaterThan(Epsilon) {
		return nil, shared.NewValidationError("subtotal", "declared subtotal does not match quantity x unit price")
	}

	return &LineItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Subtotal:   subtotal,
	}, nil
}
