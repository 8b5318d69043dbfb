package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pricingapp "github.com/trading-system/backend/internal/application/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/interfaces/http/middleware"
)

// QuoteService prices articles without persisting anything
type QuoteService interface {
	QuotePrice(ctx context.Context, req pricingapp.QuoteRequest) (*pricingapp.QuoteResponse, error)
	Simulate(ctx context.Context, req pricingapp.SimulateRequest) (*pricingapp.SimulateResponse, error)
}

// PriceAdminService maintains price lists and article prices
type PriceAdminService interface {
	UpsertArticlePrice(ctx context.Context, rc shared.RequestContext, priceListID, articleID uuid.UUID, req pricingapp.UpsertPriceRequest) (*pricingapp.ArticlePriceResponse, error)
	PriceHistory(ctx context.Context, priceListID, articleID uuid.UUID) ([]pricingapp.PriceHistoryResponse, error)
	ListActiveRules(ctx context.Context, priceListID uuid.UUID, date string) ([]pricingapp.RuleResponse, error)
	ListCurrentPriceLists(ctx context.Context, tenantID uuid.UUID, filter pricingapp.PriceListFilter) ([]pricingapp.PriceListResponse, error)
}

// PricingHandler handles quoting and price list endpoints
type PricingHandler struct {
	BaseHandler
	quotes QuoteService
	admin  PriceAdminService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(quotes QuoteService, admin PriceAdminService) *PricingHandler {
	return &PricingHandler{quotes: quotes, admin: admin}
}

// RegisterRoutes mounts the pricing and price list endpoints
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	p := rg.Group("/pricing")
	p.POST("/quote", h.Quote)
	p.POST("/simulate", h.Simulate)

	pl := rg.Group("/price-lists")
	pl.GET("/current", h.ListCurrent)
	pl.PUT("/:id/prices/:article_id", h.UpsertPrice)
	pl.GET("/:id/prices/:article_id/history", h.PriceHistory)
	pl.GET("/:id/rules/active", h.ActiveRules)
}

// Quote godoc
// @Summary      Quote an article price
// @Description  Compute the final unit price of an article for a list, channel, quantity and date
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.QuoteRequest true "Quote request"
// @Success      200 {object} dto.Response{data=pricingapp.QuoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req pricingapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.quotes.QuotePrice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Simulate godoc
// @Summary      Simulate an order
// @Description  Price several lines and aggregate totals without saving anything
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.SimulateRequest true "Simulation request"
// @Success      200 {object} dto.Response{data=pricingapp.SimulateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/simulate [post]
func (h *PricingHandler) Simulate(c *gin.Context) {
	var req pricingapp.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.quotes.Simulate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCurrent godoc
// @Summary      List price lists in force
// @Tags         price-lists
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        branch_id query string false "Branch ID"
// @Param        channel query string false "Sales channel"
// @Param        date query string false "Effective date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]pricingapp.PriceListResponse}
// @Router       /price-lists/current [get]
func (h *PricingHandler) ListCurrent(c *gin.Context) {
	filter := pricingapp.PriceListFilter{
		Channel: c.Query("channel"),
		Date:    c.Query("date"),
	}
	if raw := c.Query("branch_id"); raw != "" {
		branchID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid branch_id format")
			return
		}
		filter.BranchID = &branchID
	}

	rc := middleware.GetRequestContext(c)
	lists, err := h.admin.ListCurrentPriceLists(c.Request.Context(), rc.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lists)
}

// UpsertPrice godoc
// @Summary      Set an article price
// @Description  Create or replace the base and minimum price of an article in a list. Base price changes are recorded in the price history.
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string false "Acting user"
// @Param        X-Audit-Reason header string false "Reason recorded in the history"
// @Param        id path string true "Price list ID"
// @Param        article_id path string true "Article ID"
// @Param        request body pricingapp.UpsertPriceRequest true "Price"
// @Success      200 {object} dto.Response{data=pricingapp.ArticlePriceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /price-lists/{id}/prices/{article_id} [put]
func (h *PricingHandler) UpsertPrice(c *gin.Context) {
	listID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	articleID, ok := h.pathUUID(c, "article_id")
	if !ok {
		return
	}

	var req pricingapp.UpsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.admin.UpsertArticlePrice(c.Request.Context(), middleware.GetRequestContext(c), listID, articleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PriceHistory godoc
// @Summary      Price history of an article
// @Tags         price-lists
// @Produce      json
// @Param        id path string true "Price list ID"
// @Param        article_id path string true "Article ID"
// @Success      200 {object} dto.Response{data=[]pricingapp.PriceHistoryResponse}
// @Router       /price-lists/{id}/prices/{article_id}/history [get]
func (h *PricingHandler) PriceHistory(c *gin.Context) {
	listID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	articleID, ok := h.pathUUID(c, "article_id")
	if !ok {
		return
	}

	history, err := h.admin.PriceHistory(c.Request.Context(), listID, articleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// ActiveRules godoc
// @Summary      Rules in force for a price list
// @Tags         price-lists
// @Produce      json
// @Param        id path string true "Price list ID"
// @Param        date query string false "Effective date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]pricingapp.RuleResponse}
// @Router       /price-lists/{id}/rules/active [get]
func (h *PricingHandler) ActiveRules(c *gin.Context) {
	listID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	rules, err := h.admin.ListActiveRules(c.Request.Context(), listID, c.Query("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rules)
}
