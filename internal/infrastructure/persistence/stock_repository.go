package persistence

import (
	"context"
	"errors"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockEntryRepository implements stock.EntryRepository using GORM
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// Find finds a stock entry without locking it
func (r *GormStockEntryRepository) Find(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.Entry, error) {
	var entry stock.Entry
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("stock entry", productID)
		}
		return nil, err
	}
	return &entry, nil
}

// LockForUpdate loads a stock entry under SELECT ... FOR UPDATE. The row
// lock is held until the surrounding transaction commits or rolls back, so
// concurrent mutations of the same (product, warehouse) pair serialize.
func (r *GormStockEntryRepository) LockForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.Entry, error) {
	var entry stock.Entry
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("stock entry", productID)
		}
		return nil, err
	}
	return &entry, nil
}

// GetOrCreate returns the existing entry or creates one at zero quantity.
// Insert-on-conflict-do-nothing makes creation race-safe.
func (r *GormStockEntryRepository) GetOrCreate(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.Entry, error) {
	entry, err := r.Find(ctx, productID, warehouseID)
	if err == nil {
		return entry, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	entry, err = stock.NewEntry(productID, warehouseID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	// Conflict means another transaction created the row first
	if result.RowsAffected == 0 {
		return r.Find(ctx, productID, warehouseID)
	}
	return entry, nil
}

// Save persists a stock entry
func (r *GormStockEntryRepository) Save(ctx context.Context, entry *stock.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// FindByWarehouse lists the stock entries of a warehouse
func (r *GormStockEntryRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]stock.Entry, error) {
	var entries []stock.Entry
	query := r.db.WithContext(ctx).
		Model(&stock.Entry{}).
		Where("warehouse_id = ?", warehouseID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, StockEntrySortFields, "product_id")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByProduct lists a product's stock entries across warehouses
func (r *GormStockEntryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]stock.Entry, error) {
	var entries []stock.Entry
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GormProductTotalRepository implements stock.ProductTotalRepository using GORM
type GormProductTotalRepository struct {
	db *gorm.DB
}

// NewGormProductTotalRepository creates a new GormProductTotalRepository
func NewGormProductTotalRepository(db *gorm.DB) *GormProductTotalRepository {
	return &GormProductTotalRepository{db: db}
}

// Find finds a product total without locking it
func (r *GormProductTotalRepository) Find(ctx context.Context, productID uuid.UUID) (*stock.ProductTotal, error) {
	var total stock.ProductTotal
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&total).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("product total", productID)
		}
		return nil, err
	}
	return &total, nil
}

// LockForUpdate loads a product total under SELECT ... FOR UPDATE
func (r *GormProductTotalRepository) LockForUpdate(ctx context.Context, productID uuid.UUID) (*stock.ProductTotal, error) {
	var total stock.ProductTotal
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&total).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("product total", productID)
		}
		return nil, err
	}
	return &total, nil
}

// GetOrCreate returns the existing total or creates one at zero
func (r *GormProductTotalRepository) GetOrCreate(ctx context.Context, productID uuid.UUID) (*stock.ProductTotal, error) {
	total, err := r.Find(ctx, productID)
	if err == nil {
		return total, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	total, err = stock.NewProductTotal(productID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoNothing: true,
		}).
		Create(total)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.Find(ctx, productID)
	}
	return total, nil
}

// Save persists a product total
func (r *GormProductTotalRepository) Save(ctx context.Context, total *stock.ProductTotal) error {
	return r.db.WithContext(ctx).Save(total).Error
}

// Ensure the repositories implement their domain interfaces
var (
	_ stock.EntryRepository        = (*GormStockEntryRepository)(nil)
	_ stock.ProductTotalRepository = (*GormProductTotalRepository)(nil)
)
