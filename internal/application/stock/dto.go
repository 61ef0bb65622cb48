package stock

import (
	"time"

	"github.com/backoffice/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// OnHandResponse is the quantity on hand for one product in one warehouse.
// Pairs that were never touched by an order report zero.
type OnHandResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	WarehouseID    uuid.UUID `json:"warehouse_id"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
}

// ProductTotalResponse is the product-wide stock position across warehouses
type ProductTotalResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	TotalOnHand int64     `json:"total_on_hand"`
}

// StockEntryResponse is the read-side view of one stock entry
type StockEntryResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	WarehouseID    uuid.UUID `json:"warehouse_id"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToStockEntryResponses converts domain entries to response DTOs
func ToStockEntryResponses(entries []stock.Entry) []StockEntryResponse {
	out := make([]StockEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, StockEntryResponse{
			ID:             entry.ID,
			ProductID:      entry.ProductID,
			WarehouseID:    entry.WarehouseID,
			QuantityOnHand: entry.QuantityOnHand,
			UpdatedAt:      entry.UpdatedAt,
		})
	}
	return out
}
