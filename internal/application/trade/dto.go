package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/trade"
)

// SalesOrderLineInput is one requested (article, quantity) pair
type SalesOrderLineInput struct {
	ArticleID uuid.UUID       `json:"article_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// SalesOrderRequest creates or reprices a sales order. When PriceListID is
// empty the first active list of the branch and channel is used.
type SalesOrderRequest struct {
	BranchID    uuid.UUID             `json:"branch_id" binding:"required"`
	CustomerID  uuid.UUID             `json:"customer_id" binding:"required"`
	SellerID    *uuid.UUID            `json:"seller_id"`
	Channel     string                `json:"channel" binding:"required"`
	PriceListID *uuid.UUID            `json:"price_list_id"`
	Lines       []SalesOrderLineInput `json:"lines" binding:"required,min=1,dive"`
}

// SalesOrderLineResponse represents a priced line in API responses
type SalesOrderLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	ArticleID    uuid.UUID       `json:"article_id"`
	ArticleCode  string          `json:"article_code"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	BasePrice    decimal.Decimal `json:"base_price"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	AppliedRules []string        `json:"applied_rules"`
	BelowCost    bool            `json:"below_cost"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID               uuid.UUID                `json:"id"`
	TenantID         uuid.UUID                `json:"tenant_id"`
	OrderNumber      int64                    `json:"order_number"`
	OrderDate        string                   `json:"order_date"`
	BranchID         uuid.UUID                `json:"branch_id"`
	CustomerID       uuid.UUID                `json:"customer_id"`
	SellerID         uuid.UUID                `json:"seller_id"`
	Channel          string                   `json:"channel"`
	PriceListID      uuid.UUID                `json:"price_list_id"`
	Currency         string                   `json:"currency"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	DiscountTotal    decimal.Decimal          `json:"discount_total"`
	Total            decimal.Decimal          `json:"total"`
	Status           string                   `json:"status"`
	RequiresApproval bool                     `json:"requires_approval"`
	Lines            []SalesOrderLineResponse `json:"lines"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Version          int                      `json:"version"`
}

// ToSalesOrderResponse converts a domain order
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	lines := make([]SalesOrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = SalesOrderLineResponse{
			ID:           l.ID,
			ArticleID:    l.ArticleID,
			ArticleCode:  l.ArticleCode,
			Description:  l.Description,
			Quantity:     l.Quantity,
			BasePrice:    l.BasePrice,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount,
			AppliedRules: l.AppliedRules,
			BelowCost:    l.BelowCost,
			LineTotal:    l.LineTotal,
		}
	}
	return SalesOrderResponse{
		ID:               o.ID,
		TenantID:         o.TenantID,
		OrderNumber:      o.OrderNumber,
		OrderDate:        o.OrderDate.Format(time.DateOnly),
		BranchID:         o.BranchID,
		CustomerID:       o.CustomerID,
		SellerID:         o.SellerID,
		Channel:          string(o.Channel),
		PriceListID:      o.PriceListID,
		Currency:         string(o.Currency),
		Subtotal:         o.Subtotal,
		DiscountTotal:    o.DiscountTotal,
		Total:            o.Total,
		Status:           string(o.Status),
		RequiresApproval: o.RequiresApproval(),
		Lines:            lines,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Version:          o.GetVersion(),
	}
}
