package stock

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductTotal is the materialized product-wide stock projection: the sum of
// a product's stock entries across all warehouses. It is only ever mutated
// in lockstep with an entry mutation, inside the same transaction.
type ProductTotal struct {
	shared.BaseEntity
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TotalOnHand int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductTotal) TableName() string {
	return "product_stock_totals"
}

// NewProductTotal creates a product total starting at zero
func NewProductTotal(productID uuid.UUID) (*ProductTotal, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "product ID cannot be empty")
	}
	return &ProductTotal{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
	}, nil
}

// Apply adds delta (positive or negative) to the total. The per-warehouse
// entry guard already rejects negative quantities, so a negative total here
// means the projection drifted from its entries.
func (p *ProductTotal) Apply(delta int64) error {
	if p.TotalOnHand+delta < 0 {
		return shared.NewInfrastructureError("product total projection",
			&shared.InsufficientStockError{ProductID: p.ProductID, Available: p.TotalOnHand, Requested: -delta})
	}
	p.TotalOnHand += delta
	p.Touch()
	return nil
}
