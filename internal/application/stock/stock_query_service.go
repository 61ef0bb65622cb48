package stock

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// StockQueryService serves read-only stock positions. It never mutates and
// therefore needs no transaction scope: entries that do not exist yet read
// as zero.
type StockQueryService struct {
	entries stock.EntryRepository
	totals  stock.ProductTotalRepository
}

// NewStockQueryService creates a new StockQueryService
func NewStockQueryService(entries stock.EntryRepository, totals stock.ProductTotalRepository) *StockQueryService {
	return &StockQueryService{entries: entries, totals: totals}
}

// GetOnHand returns the quantity on hand for a product in a warehouse
func (s *StockQueryService) GetOnHand(ctx context.Context, productID, warehouseID uuid.UUID) (*OnHandResponse, error) {
	resp := &OnHandResponse{ProductID: productID, WarehouseID: warehouseID}

	entry, err := s.entries.Find(ctx, productID, warehouseID)
	if err != nil {
		if shared.IsNotFound(err) {
			return resp, nil
		}
		return nil, shared.NewInfrastructureError("load stock entry", err)
	}
	resp.QuantityOnHand = entry.QuantityOnHand
	return resp, nil
}

// GetProductTotal returns the product-wide position across all warehouses
func (s *StockQueryService) GetProductTotal(ctx context.Context, productID uuid.UUID) (*ProductTotalResponse, error) {
	resp := &ProductTotalResponse{ProductID: productID}

	total, err := s.totals.Find(ctx, productID)
	if err != nil {
		if shared.IsNotFound(err) {
			return resp, nil
		}
		return nil, shared.NewInfrastructureError("load product total", err)
	}
	resp.TotalOnHand = total.TotalOnHand
	return resp, nil
}

// ListByWarehouse lists the stock entries of a warehouse
func (s *StockQueryService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockEntryResponse, error) {
	entries, err := s.entries.FindByWarehouse(ctx, warehouseID, filter)
	if err != nil {
		return nil, shared.NewInfrastructureError("list warehouse stock", err)
	}
	return ToStockEntryResponses(entries), nil
}

// ListByProduct lists a product's entries across warehouses
func (s *StockQueryService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]StockEntryResponse, error) {
	entries, err := s.entries.FindByProduct(ctx, productID)
	if err != nil {
		return nil, shared.NewInfrastructureError("list product stock", err)
	}
	return ToStockEntryResponses(entries), nil
}
