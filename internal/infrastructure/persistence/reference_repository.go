package persistence

import (
	"context"

	apporder "github.com/backoffice/backend/internal/application/order"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The engine validates orders against master data it does not own. These
// models map the reference tables maintained by the surrounding back
// office; the engine only ever reads them.

// Supplier is a purchase counterparty
type Supplier struct {
	shared.BaseEntity
	Code   string `gorm:"size:50;uniqueIndex"`
	Name   string `gorm:"size:200;not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string { return "suppliers" }

// Customer is a sale counterparty
type Customer struct {
	shared.BaseEntity
	Code   string `gorm:"size:50;uniqueIndex"`
	Name   string `gorm:"size:200;not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string { return "customers" }

// Warehouse is a stock location
type Warehouse struct {
	shared.BaseEntity
	Code   string `gorm:"size:50;uniqueIndex"`
	Name   string `gorm:"size:200;not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string { return "warehouses" }

// Product is a sellable or purchasable item
type Product struct {
	shared.BaseEntity
	Code   string `gorm:"size:50;uniqueIndex"`
	Name   string `gorm:"size:200;not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string { return "products" }

// PaymentMethod is a way an order can be paid
type PaymentMethod struct {
	shared.BaseEntity
	Code    string `gorm:"size:50;uniqueIndex"`
	Name    string `gorm:"size:200;not null"`
	Enabled bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PaymentMethod) TableName() string { return "payment_methods" }

// GormPartyRegistry implements the PartyRegistry port against the supplier
// and customer tables
type GormPartyRegistry struct {
	db *gorm.DB
}

// NewGormPartyRegistry creates a new GormPartyRegistry
func NewGormPartyRegistry(db *gorm.DB) *GormPartyRegistry {
	return &GormPartyRegistry{db: db}
}

// SupplierExists reports whether an active supplier with the ID exists
func (r *GormPartyRegistry) SupplierExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&Supplier{}).Where("id = ? AND active", id))
}

// CustomerExists reports whether an active customer with the ID exists
func (r *GormPartyRegistry) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&Customer{}).Where("id = ? AND active", id))
}

// GormReferenceData implements the ReferenceData port against the
// warehouse, product, and payment method tables
type GormReferenceData struct {
	db *gorm.DB
}

// NewGormReferenceData creates a new GormReferenceData
func NewGormReferenceData(db *gorm.DB) *GormReferenceData {
	return &GormReferenceData{db: db}
}

// WarehouseExists reports whether an active warehouse with the ID exists
func (r *GormReferenceData) WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&Warehouse{}).Where("id = ? AND active", id))
}

// ProductExists reports whether an active product with the ID exists
func (r *GormReferenceData) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&Product{}).Where("id = ? AND active", id))
}

// PaymentMethodValid reports whether an enabled payment method with the ID exists
func (r *GormReferenceData) PaymentMethodValid(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&PaymentMethod{}).Where("id = ? AND enabled", id))
}

func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure the registries implement the application ports
var (
	_ apporder.PartyRegistry = (*GormPartyRegistry)(nil)
	_ apporder.ReferenceData = (*GormReferenceData)(nil)
)
