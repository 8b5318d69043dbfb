package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pricingapp "github.com/trading-system/backend/internal/application/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/interfaces/http/middleware"
)

// RuleService maintains pricing rules and their audit trail
type RuleService interface {
	CreateRule(ctx context.Context, rc shared.RequestContext, req pricingapp.RuleRequest) (*pricingapp.RuleResponse, error)
	UpdateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req pricingapp.RuleRequest) (*pricingapp.RuleResponse, error)
	ActivateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*pricingapp.RuleResponse, error)
	DeactivateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*pricingapp.RuleResponse, error)
	DeleteRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) error
	GetRule(ctx context.Context, id uuid.UUID) (*pricingapp.RuleResponse, error)
	RuleAudits(ctx context.Context, ruleID uuid.UUID) ([]pricingapp.RuleAuditResponse, error)
}

// PricingRuleHandler handles pricing rule endpoints
type PricingRuleHandler struct {
	BaseHandler
	rules RuleService
}

// NewPricingRuleHandler creates a new PricingRuleHandler
func NewPricingRuleHandler(rules RuleService) *PricingRuleHandler {
	return &PricingRuleHandler{rules: rules}
}

// RegisterRoutes mounts the pricing rule endpoints
func (h *PricingRuleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	r := rg.Group("/pricing-rules")
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.POST("/:id/activate", h.Activate)
	r.POST("/:id/deactivate", h.Deactivate)
	r.GET("/:id/audits", h.Audits)
}

// Create godoc
// @Summary      Create a pricing rule
// @Description  New rules start inactive
// @Tags         pricing-rules
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string false "Acting user"
// @Param        request body pricingapp.RuleRequest true "Rule"
// @Success      201 {object} dto.Response{data=pricingapp.RuleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing-rules [post]
func (h *PricingRuleHandler) Create(c *gin.Context) {
	var req pricingapp.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rule, err := h.rules.CreateRule(c.Request.Context(), middleware.GetRequestContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// Update godoc
// @Summary      Replace a pricing rule
// @Tags         pricing-rules
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID"
// @Param        request body pricingapp.RuleRequest true "Rule"
// @Success      200 {object} dto.Response{data=pricingapp.RuleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing-rules/{id} [put]
func (h *PricingRuleHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rule, err := h.rules.UpdateRule(c.Request.Context(), middleware.GetRequestContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Get godoc
// @Summary      Get a pricing rule
// @Tags         pricing-rules
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      200 {object} dto.Response{data=pricingapp.RuleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing-rules/{id} [get]
func (h *PricingRuleHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	rule, err := h.rules.GetRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Activate godoc
// @Summary      Activate a pricing rule
// @Tags         pricing-rules
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      200 {object} dto.Response{data=pricingapp.RuleResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing-rules/{id}/activate [post]
func (h *PricingRuleHandler) Activate(c *gin.Context) {
	h.transition(c, h.rules.ActivateRule)
}

// Deactivate godoc
// @Summary      Deactivate a pricing rule
// @Tags         pricing-rules
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      200 {object} dto.Response{data=pricingapp.RuleResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing-rules/{id}/deactivate [post]
func (h *PricingRuleHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.rules.DeactivateRule)
}

func (h *PricingRuleHandler) transition(c *gin.Context, fn func(context.Context, shared.RequestContext, uuid.UUID) (*pricingapp.RuleResponse, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	rule, err := fn(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Delete godoc
// @Summary      Delete a pricing rule
// @Tags         pricing-rules
// @Param        id path string true "Rule ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing-rules/{id} [delete]
func (h *PricingRuleHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.rules.DeleteRule(c.Request.Context(), middleware.GetRequestContext(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Audits godoc
// @Summary      Audit trail of a pricing rule
// @Tags         pricing-rules
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      200 {object} dto.Response{data=[]pricingapp.RuleAuditResponse}
// @Router       /pricing-rules/{id}/audits [get]
func (h *PricingRuleHandler) Audits(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	audits, err := h.rules.RuleAudits(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, audits)
}
