package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/trading-system/backend/internal/application/trade"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/interfaces/http/middleware"
)

// OrderService creates and reprices sales orders
type OrderService interface {
	Create(ctx context.Context, rc shared.RequestContext, req tradeapp.SalesOrderRequest) (*tradeapp.SalesOrderResponse, error)
	Update(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req tradeapp.SalesOrderRequest) (*tradeapp.SalesOrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*tradeapp.SalesOrderResponse, error)
}

// SalesOrderHandler handles sales order endpoints
type SalesOrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orders OrderService) *SalesOrderHandler {
	return &SalesOrderHandler{orders: orders}
}

// RegisterRoutes mounts the sales order endpoints
func (h *SalesOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	r := rg.Group("/sales-orders")
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
}

// Create godoc
// @Summary      Create a sales order
// @Description  Every line is priced by the pricing engine. Orders with a line below cost are held for approval.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        X-User-ID header string false "Acting user, used as seller when none is given"
// @Param        request body tradeapp.SalesOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales-orders [post]
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req tradeapp.SalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), middleware.GetRequestContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update godoc
// @Summary      Reprice a sales order
// @Description  Replaces every line and prices them again. Only pending orders can change.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.SalesOrderRequest true "Order"
// @Success      200 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales-orders/{id} [put]
func (h *SalesOrderHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.SalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.Update(c.Request.Context(), middleware.GetRequestContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Get godoc
// @Summary      Get a sales order
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales-orders/{id} [get]
func (h *SalesOrderHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
