package order

import (
	"time"

	"github.com/backoffice/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one product position in a create/update payload.
// Subtotal, when declared, is validated against quantity x unit price
// rather than trusted.
type LineItemRequest struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
}

// PaymentSplitRequest is one payment-method portion of the declared total
type PaymentSplitRequest struct {
	PaymentMethodID uuid.UUID       `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	ReceiptID       *uuid.UUID      `json:"receipt_id,omitempty"`
}

// CreateOrderRequest carries a full new purchase or sale document
type CreateOrderRequest struct {
	Kind           order.OrderKind       `json:"kind"`
	CounterpartyID uuid.UUID             `json:"counterparty_id"`
	WarehouseID    uuid.UUID             `json:"warehouse_id"`
	DocumentDate   time.Time             `json:"document_date"`
	DocumentNumber string                `json:"document_number,omitempty"`
	DeclaredTotal  decimal.Decimal       `json:"declared_total"`
	TaxIncluded    bool                  `json:"tax_included"`
	Status         order.OrderStatus     `json:"status,omitempty"`
	Items          []LineItemRequest     `json:"items"`
	Payments       []PaymentSplitRequest `json:"payments"`
}

// UpdateOrderRequest carries a full replacement of the document's scalar
// fields. Items and Payments are optional: when nil the stored sets are
// kept, when supplied the stored sets are replaced wholesale.
type UpdateOrderRequest struct {
	CounterpartyID uuid.UUID             `json:"counterparty_id"`
	WarehouseID    uuid.UUID             `json:"warehouse_id"`
	DocumentDate   time.Time             `json:"document_date"`
	DocumentNumber string                `json:"document_number,omitempty"`
	DeclaredTotal  decimal.Decimal       `json:"declared_total"`
	TaxIncluded    bool                  `json:"tax_included"`
	Status         order.OrderStatus     `json:"status"`
	Items          []LineItemRequest     `json:"items,omitempty"`
	Payments       []PaymentSplitRequest `json:"payments,omitempty"`
}

// OrderPatchRequest is an explicit patch type: every field is independently
// optional and validated before being merged into the aggregate.
type OrderPatchRequest struct {
	CounterpartyID *uuid.UUID             `json:"counterparty_id,omitempty"`
	WarehouseID    *uuid.UUID             `json:"warehouse_id,omitempty"`
	DocumentDate   *time.Time             `json:"document_date,omitempty"`
	DocumentNumber *string                `json:"document_number,omitempty"`
	DeclaredTotal  *decimal.Decimal       `json:"declared_total,omitempty"`
	TaxIncluded    *bool                  `json:"tax_included,omitempty"`
	Status         *order.OrderStatus     `json:"status,omitempty"`
	Items          *[]LineItemRequest     `json:"items,omitempty"`
	Payments       *[]PaymentSplitRequest `json:"payments,omitempty"`
}

// IsEmpty returns true when the patch carries no changes
func (p OrderPatchRequest) IsEmpty() bool {
	return p.CounterpartyID == nil && p.WarehouseID == nil && p.DocumentDate == nil &&
		p.DocumentNumber == nil && p.DeclaredTotal == nil && p.TaxIncluded == nil &&
		p.Status == nil && p.Items == nil && p.Payments == nil
}

// OrderListFilter carries list filtering and pagination options
type OrderListFilter struct {
	Kind           *order.OrderKind
	Status         *order.OrderStatus
	CounterpartyID *uuid.UUID
	WarehouseID    *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
}

// LineItemResponse is the read-side view of a line item
type LineItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PaymentSplitResponse is the read-side view of a payment split
type PaymentSplitResponse struct {
	ID              uuid.UUID       `json:"id"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	ReceiptID       *uuid.UUID      `json:"receipt_id,omitempty"`
}

// OrderResponse is the flat read-side view of an order document. Nested
// registry records are never embedded; consumers resolve foreign keys
// themselves.
type OrderResponse struct {
	ID             uuid.UUID              `json:"id"`
	Kind           order.OrderKind        `json:"kind"`
	CounterpartyID uuid.UUID              `json:"counterparty_id"`
	WarehouseID    uuid.UUID              `json:"warehouse_id"`
	DocumentDate   time.Time              `json:"document_date"`
	DocumentNumber string                 `json:"document_number,omitempty"`
	DeclaredTotal  decimal.Decimal        `json:"declared_total"`
	TaxIncluded    bool                   `json:"tax_included"`
	Status         order.OrderStatus      `json:"status"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	Items          []LineItemResponse     `json:"items"`
	Payments       []PaymentSplitResponse `json:"payments"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

// OrderListItemResponse is the compact listing view without children
type OrderListItemResponse struct {
	ID             uuid.UUID         `json:"id"`
	Kind           order.OrderKind   `json:"kind"`
	CounterpartyID uuid.UUID         `json:"counterparty_id"`
	WarehouseID    uuid.UUID         `json:"warehouse_id"`
	DocumentDate   time.Time         `json:"document_date"`
	DocumentNumber string            `json:"document_number,omitempty"`
	DeclaredTotal  decimal.Decimal   `json:"declared_total"`
	Status         order.OrderStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ToOrderResponse maps an order document to its response DTO
func ToOrderResponse(doc *order.OrderDocument) OrderResponse {
	items := make([]LineItemResponse, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, LineItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}

	payments := make([]PaymentSplitResponse, 0, len(doc.Payments))
	for _, split := range doc.Payments {
		payments = append(payments, PaymentSplitResponse{
			ID:              split.ID,
			PaymentMethodID: split.PaymentMethodID,
			Amount:          split.Amount,
			ReceiptID:       split.ReceiptID,
		})
	}

	return OrderResponse{
		ID:             doc.ID,
		Kind:           doc.Kind,
		CounterpartyID: doc.CounterpartyID,
		WarehouseID:    doc.WarehouseID,
		DocumentDate:   doc.DocumentDate,
		DocumentNumber: doc.DocumentNumber,
		DeclaredTotal:  doc.DeclaredTotal,
		TaxIncluded:    doc.TaxIncluded,
		Status:         doc.Status,
		CancelledAt:    doc.CancelledAt,
		Items:          items,
		Payments:       payments,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
		Version:        doc.Version,
	}
}

// ToOrderListItemResponses maps order documents to their listing DTOs
func ToOrderListItemResponses(docs []order.OrderDocument) []OrderListItemResponse {
	out := make([]OrderListItemResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, OrderListItemResponse{
			ID:             doc.ID,
			Kind:           doc.Kind,
			CounterpartyID: doc.CounterpartyID,
			WarehouseID:    doc.WarehouseID,
			DocumentDate:   doc.DocumentDate,
			DocumentNumber: doc.DocumentNumber,
			DeclaredTotal:  doc.DeclaredTotal,
			Status:         doc.Status,
			CreatedAt:      doc.CreatedAt,
		})
	}
	return out
}
