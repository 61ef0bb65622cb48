package stock

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Entry is the quantity-on-hand record for one product in one warehouse.
// It is created lazily at zero the first time the pair is referenced and
// its quantity never goes negative.
type Entry struct {
	shared.BaseEntity
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_entry_product_warehouse,priority:1"`
	WarehouseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_entry_product_warehouse,priority:2"`
	QuantityOnHand int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "stock_entries"
}

// NewEntry creates a stock entry starting at zero quantity
func NewEntry(productID, warehouseID uuid.UUID) (*Entry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse_id", "warehouse ID cannot be empty")
	}
	return &Entry{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		WarehouseID: warehouseID,
	}, nil
}

// Increase adds qty to the quantity on hand
func (e *Entry) Increase(qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity", "quantity must be positive")
	}
	e.QuantityOnHand += qty
	e.Touch()
	return nil
}

// Decrease removes qty from the quantity on hand. A decrease that would
// drive the quantity negative fails with InsufficientStockError and leaves
// the entry untouched.
func (e *Entry) Decrease(qty int64) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity", "quantity must be positive")
	}
	if e.QuantityOnHand < qty {
		return &shared.InsufficientStockError{
			ProductID:   e.ProductID,
			WarehouseID: e.WarehouseID,
			Available:   e.QuantityOnHand,
			Requested:   qty,
		}
	}
	e.QuantityOnHand -= qty
	e.Touch()
	return nil
}

// CanFulfill returns true if qty can be decreased without going negative
func (e *Entry) CanFulfill(qty int64) bool {
	return e.QuantityOnHand >= qty
}
