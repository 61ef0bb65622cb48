package stock

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Ledger applies stock deltas to per-warehouse entries and keeps the
// product-wide projection in lockstep. It operates on transactional
// repositories: every mutation locks the entry row and the product total
// row for the duration of the surrounding transaction, so concurrent
// mutations of the same (product, warehouse) pair serialize.
type Ledger struct {
	entries EntryRepository
	totals  ProductTotalRepository
}

// NewLedger creates a ledger over the given transactional repositories
func NewLedger(entries EntryRepository, totals ProductTotalRepository) *Ledger {
	return &Ledger{entries: entries, totals: totals}
}

// EnsureEntry returns the stock entry for the pair, creating it at zero on
// first reference. Idempotent.
func (l *Ledger) EnsureEntry(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error) {
	entry, err := l.entries.GetOrCreate(ctx, productID, warehouseID)
	if err != nil {
		return nil, shared.NewInfrastructureError("ensure stock entry", err)
	}
	if _, err := l.totals.GetOrCreate(ctx, productID); err != nil {
		return nil, shared.NewInfrastructureError("ensure product total", err)
	}
	return entry, nil
}

// Increment adds qty to the pair's quantity on hand and to the product total
func (l *Ledger) Increment(ctx context.Context, productID, warehouseID uuid.UUID, qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity", "increment quantity must be positive")
	}
	return l.apply(ctx, productID, warehouseID, qty)
}

// Decrement removes qty from the pair's quantity on hand and from the
// product total. Fails with InsufficientStockError when the entry would go
// negative; nothing is applied in that case.
func (l *Ledger) Decrement(ctx context.Context, productID, warehouseID uuid.UUID, qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity", "decrement quantity must be positive")
	}
	return l.apply(ctx, productID, warehouseID, -qty)
}

// Available returns the current quantity on hand for the pair. A pair never
// referenced before reads as zero.
func (l *Ledger) Available(ctx context.Context, productID, warehouseID uuid.UUID) (int64, error) {
	entry, err := l.entries.Find(ctx, productID, warehouseID)
	if err != nil {
		if shared.IsNotFound(err) {
			return 0, nil
		}
		return 0, shared.NewInfrastructureError("read stock entry", err)
	}
	return entry.QuantityOnHand, nil
}

func (l *Ledger) apply(ctx context.Context, productID, warehouseID uuid.UUID, delta int64) error {
	if _, err := l.EnsureEntry(ctx, productID, warehouseID); err != nil {
		return err
	}

	entry, err := l.entries.LockForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return shared.NewInfrastructureError("lock stock entry", err)
	}

	if delta > 0 {
		err = entry.Increase(delta)
	} else {
		err = entry.Decrease(-delta)
	}
	if err != nil {
		return err
	}

	if err := l.entries.Save(ctx, entry); err != nil {
		return shared.NewInfrastructureError("save stock entry", err)
	}

	total, err := l.totals.LockForUpdate(ctx, productID)
	if err != nil {
		return shared.NewInfrastructureError("lock product total", err)
	}
	if err := total.Apply(delta); err != nil {
		return err
	}
	if err := l.totals.Save(ctx, total); err != nil {
		return shared.NewInfrastructureError("save product total", err)
	}

	return nil
}
