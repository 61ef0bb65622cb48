package stock

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryRepository defines the persistence interface for stock entries.
// LockForUpdate must acquire a pessimistic row lock (SELECT ... FOR UPDATE)
// so that concurrent mutations of the same (product, warehouse) pair
// serialize instead of losing updates.
type EntryRepository interface {
	// Find loads an entry without locking it
	Find(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error)
	// LockForUpdate loads an entry under a row lock held until the
	// surrounding transaction commits or rolls back
	LockForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error)
	// GetOrCreate returns the existing entry or creates one at zero.
	// Creation is race-safe (insert-on-conflict-do-nothing).
	GetOrCreate(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error)
	// Save persists the entry
	Save(ctx context.Context, entry *Entry) error
	// FindByWarehouse lists entries in a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]Entry, error)
	// FindByProduct lists a product's entries across warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Entry, error)
}

// ProductTotalRepository defines the persistence interface for the
// product-wide stock projection.
type ProductTotalRepository interface {
	// Find loads the total without locking it
	Find(ctx context.Context, productID uuid.UUID) (*ProductTotal, error)
	// LockForUpdate loads the total under a row lock
	LockForUpdate(ctx context.Context, productID uuid.UUID) (*ProductTotal, error)
	// GetOrCreate returns the existing total or creates one at zero
	GetOrCreate(ctx context.Context, productID uuid.UUID) (*ProductTotal, error)
	// Save persists the total
	Save(ctx context.Context, total *ProductTotal) error
}
