package order

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentSplit represents one payment-method portion of an order total.
// Splits follow the same bulk-replace lifecycle as line items.
type PaymentSplit struct {
	shared.BaseEntity
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReceiptID       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PaymentSplit) TableName() string {
	return "order_payment_splits"
}

// NewPaymentSplit creates a validated payment split for an order
func NewPaymentSplit(orderID, paymentMethodID uuid.UUID, amount decimal.Decimal, receiptID *uuid.UUID) (*PaymentSplit, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("order_id", "order ID cannot be empty")
	}
	if paymentMethodID == uuid.Nil {
		return nil, shared.NewValidationError("payment_method_id", "payment method ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("amount", "payment amount must be positive")
	}

	return &PaymentSplit{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         orderID,
		PaymentMethodID: paymentMethodID,
		Amount:          amount,
		ReceiptID:       receiptID,
	}, nil
}
