package persistence

import (
	"context"
	"errors"

	"github.com/backoffice/backend/internal/domain/order"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order document by ID with its items and payments loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.OrderDocument, error) {
	var doc order.OrderDocument
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("order", id)
		}
		return nil, err
	}
	return &doc, nil
}

// FindAll finds order documents matching the filter, without children
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.OrderDocument, error) {
	var docs []order.OrderDocument
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.OrderDocument{}),
		filter,
	)
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Count counts order documents matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&order.OrderDocument{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new order document together with its children
func (r *GormOrderRepository) Create(ctx context.Context, doc *order.OrderDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Update persists the scalar fields of an existing order document with an
// optimistic version check. Children are managed through ReplaceItems and
// ReplacePayments and deliberately excluded here.
func (r *GormOrderRepository) Update(ctx context.Context, doc *order.OrderDocument) error {
	doc.IncrementVersion()

	result := r.db.WithContext(ctx).
		Model(&order.OrderDocument{}).
		Where("id = ? AND version = ?", doc.ID, doc.Version-1).
		Updates(map[string]interface{}{
			"counterparty_id": doc.CounterpartyID,
			"warehouse_id":    doc.WarehouseID,
			"document_date":   doc.DocumentDate,
			"document_number": doc.DocumentNumber,
			"declared_total":  doc.DeclaredTotal,
			"tax_included":    doc.TaxIncluded,
			"status":          doc.Status,
			"cancelled_at":    doc.CancelledAt,
			"version":         doc.Version,
			"updated_at":      doc.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &shared.StateConflictError{
			OrderID: doc.ID,
			Status:  doc.Status.String(),
			Action:  "concurrent modification",
		}
	}
	return nil
}

// ReplaceItems deletes the stored line items of the order and inserts the
// given set
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []order.LineItem) error {
	if err := r.db.WithContext(ctx).
		Delete(&order.LineItem{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ReplacePayments deletes the stored payment splits of the order and inserts
// the given set
func (r *GormOrderRepository) ReplacePayments(ctx context.Context, orderID uuid.UUID, payments []order.PaymentSplit) error {
	if err := r.db.WithContext(ctx).
		Delete(&order.PaymentSplit{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&payments).Error
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "counterparty_id":
			query = query.Where("counterparty_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "start_date":
			query = query.Where("document_date >= ?", value)
		case "end_date":
			query = query.Where("document_date <= ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
