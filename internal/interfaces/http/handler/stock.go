package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appstock "github.com/backoffice/backend/internal/application/stock"
	"github.com/backoffice/backend/internal/domain/shared"
)

// StockHandler handles stock query API endpoints
type StockHandler struct {
	BaseHandler
	stock *appstock.StockQueryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stock *appstock.StockQueryService) *StockHandler {
	return &StockHandler{stock: stock}
}

// GetOnHand godoc
// @Summary      Get on-hand quantity
// @Description  Quantity of a product at a warehouse; zero when no entry exists
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=stock.OnHandResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/products/{product_id}/warehouses/{warehouse_id} [get]
func (h *StockHandler) GetOnHand(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	warehouseID, err := uuid.Parse(c.Param("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	resp, err := h.stock.GetOnHand(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetProductTotal godoc
// @Summary      Get product stock total
// @Description  Aggregate quantity of a product across all warehouses
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=stock.ProductTotalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/products/{product_id}/total [get]
func (h *StockHandler) GetProductTotal(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	resp, err := h.stock.GetProductTotal(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByWarehouse godoc
// @Summary      List stock entries in a warehouse
// @Tags         stock
// @Produce      json
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]stock.StockEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/warehouses/{warehouse_id} [get]
func (h *StockHandler) ListByWarehouse(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	filter := shared.DefaultFilter()
	entries, err := h.stock.ListByWarehouse(c.Request.Context(), warehouseID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListByProduct godoc
// @Summary      List a product's stock entries across warehouses
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]stock.StockEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/products/{product_id} [get]
func (h *StockHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	entries, err := h.stock.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// RegisterRoutes registers stock query routes on the group
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("/products/:product_id", h.ListByProduct)
		stock.GET("/products/:product_id/total", h.GetProductTotal)
		stock.GET("/products/:product_id/warehouses/:warehouse_id", h.GetOnHand)
		stock.GET("/warehouses/:warehouse_id", h.ListByWarehouse)
	}
}
