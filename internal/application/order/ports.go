package order

import (
	"context"

	"github.com/google/uuid"
)

// PartyRegistry verifies counterparty references against the external party
// store. Purchases reference suppliers, sales reference customers.
type PartyRegistry interface {
	SupplierExists(ctx context.Context, id uuid.UUID) (bool, error)
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReferenceData verifies warehouse, product, and payment-method references
// against the external reference tables. The engine never owns those
// records; it only checks they exist before mutating anything.
type ReferenceData interface {
	WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error)
	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
	PaymentMethodValid(ctx context.Context, id uuid.UUID) (bool, error)
}
