package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/backoffice/backend/internal/application/order"
	"github.com/backoffice/backend/internal/domain/order"
)

// OrderHandler handles order document API endpoints
type OrderHandler struct {
	BaseHandler
	orders *apporder.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create godoc
// @Summary      Create an order document
// @Description  Create a purchase or sale document and apply its stock effect
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body order.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=order.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req apporder.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID godoc
// @Summary      Get an order document
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// listOrdersQuery binds the order listing query string
type listOrdersQuery struct {
	Kind           string `form:"kind" binding:"omitempty,oneof=PURCHASE SALE"`
	Status         string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	WarehouseID    string `form:"warehouse_id" binding:"omitempty,uuid"`
	StartDate      string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate        string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// List godoc
// @Summary      List order documents
// @Description  List documents filtered by kind, status, counterparty, warehouse and date range
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]order.OrderListItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q listOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	filter, err := q.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Replace an order document
// @Description  Full replacement; omitted items/payments keep the stored sets
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.UpdateOrderRequest true "Order update request"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req apporder.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Patch godoc
// @Summary      Partially update an order document
// @Description  Only the supplied fields change; the merged document is revalidated
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.OrderPatchRequest true "Order patch request"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [patch]
func (h *OrderHandler) Patch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var patch apporder.OrderPatchRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.PartialUpdate(c.Request.Context(), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel an order document
// @Description  Reverses the document's stock effect and marks it terminal
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orders.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers order routes on the group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id", h.Update)
		orders.PATCH("/:id", h.Patch)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

func (q listOrdersQuery) toFilter() (apporder.OrderListFilter, error) {
	filter := apporder.OrderListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	if q.Kind != "" {
		kind := order.OrderKind(q.Kind)
		filter.Kind = &kind
	}
	if q.Status != "" {
		status := order.OrderStatus(q.Status)
		filter.Status = &status
	}
	if q.CounterpartyID != "" {
		id, err := uuid.Parse(q.CounterpartyID)
		if err != nil {
			return filter, err
		}
		filter.CounterpartyID = &id
	}
	if q.WarehouseID != "" {
		id, err := uuid.Parse(q.WarehouseID)
		if err != nil {
			return filter, err
		}
		filter.WarehouseID = &id
	}
	if q.StartDate != "" {
		start, err := time.Parse("2006-01-02", q.StartDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := time.Parse("2006-01-02", q.EndDate)
		if err != nil {
			return filter, err
		}
		// Inclusive end of day
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	return filter, nil
}
