package order

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence interface for order documents.
// FindByID loads the full aggregate including line items and payment
// splits; child sets are always replaced wholesale, never patched row by
// row.
type Repository interface {
	// FindByID loads an order with its items and payments
	FindByID(ctx context.Context, id uuid.UUID) (*OrderDocument, error)
	// FindAll lists orders matching the filter (children not loaded)
	FindAll(ctx context.Context, filter shared.Filter) ([]OrderDocument, error)
	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Create persists a new order together with its items and payments
	Create(ctx context.Context, order *OrderDocument) error
	// Update persists the scalar fields of an existing order with an
	// optimistic version check
	Update(ctx context.Context, order *OrderDocument) error
	// ReplaceItems deletes the stored line items of the order and inserts
	// the given set
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []LineItem) error
	// ReplacePayments deletes the stored payment splits of the order and
	// inserts the given set
	ReplacePayments(ctx context.Context, orderID uuid.UUID, payments []PaymentSplit) error
}
