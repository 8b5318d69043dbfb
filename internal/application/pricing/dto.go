package pricing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
)

// DateLayout is the wire format of calendar dates
const DateLayout = time.DateOnly

// QuoteRequest asks for the price of one article
type QuoteRequest struct {
	ArticleID   uuid.UUID       `json:"article_id" binding:"required"`
	PriceListID uuid.UUID       `json:"price_list_id" binding:"required"`
	Channel     string          `json:"channel" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// QuoteResponse is the price breakdown of one article
type QuoteResponse struct {
	ArticleID     uuid.UUID       `json:"article_id"`
	PriceListID   uuid.UUID       `json:"price_list_id"`
	Channel       string          `json:"channel"`
	Quantity      decimal.Decimal `json:"quantity"`
	BasePrice     decimal.Decimal `json:"base_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	AppliedRules  []string        `json:"applied_rules"`
	BelowCost     bool            `json:"below_cost"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// SimulateLine is one (article, quantity) pair of a simulation
type SimulateLine struct {
	ArticleID uuid.UUID       `json:"article_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// SimulateRequest prices several lines without persisting anything
type SimulateRequest struct {
	PriceListID uuid.UUID      `json:"price_list_id" binding:"required"`
	Channel     string         `json:"channel" binding:"required"`
	Lines       []SimulateLine `json:"lines" binding:"required,min=1,dive"`
	Date        string         `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SimulateResponse holds the per-line breakdown and aggregated totals
type SimulateResponse struct {
	PriceListID      uuid.UUID       `json:"price_list_id"`
	Channel          string          `json:"channel"`
	Lines            []QuoteResponse `json:"lines"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountTotal    decimal.Decimal `json:"discount_total"`
	Total            decimal.Decimal `json:"total"`
	RequiresApproval bool            `json:"requires_approval"`
}

// UpsertPriceRequest sets the base and minimum price of an article in a list
type UpsertPriceRequest struct {
	BasePrice    decimal.Decimal `json:"base_price" binding:"required"`
	MinimumPrice decimal.Decimal `json:"minimum_price" binding:"required"`
	Status       string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ArticlePriceResponse represents a price entry in API responses
type ArticlePriceResponse struct {
	ID           uuid.UUID       `json:"id"`
	PriceListID  uuid.UUID       `json:"price_list_id"`
	ArticleID    uuid.UUID       `json:"article_id"`
	BasePrice    decimal.Decimal `json:"base_price"`
	MinimumPrice decimal.Decimal `json:"minimum_price"`
	Status       string          `json:"status"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RuleRequest creates or replaces a pricing rule
type RuleRequest struct {
	PriceListID  uuid.UUID        `json:"price_list_id" binding:"required"`
	Code         string           `json:"code" binding:"required,min=1,max=10"`
	Kind         string           `json:"kind" binding:"required,oneof=channel quantity_break amount_break line group article order_amount combination"`
	Priority     int              `json:"priority" binding:"min=0"`
	Channel      string           `json:"channel" binding:"omitempty,max=50"`
	LineID       *uuid.UUID       `json:"line_id"`
	GroupID      *uuid.UUID       `json:"group_id"`
	ArticleID    *uuid.UUID       `json:"article_id"`
	MinQuantity  *decimal.Decimal `json:"min_quantity"`
	MinAmount    *decimal.Decimal `json:"min_amount"`
	DiscountType string           `json:"discount_type" binding:"required,oneof=percentage fixed_amount"`
	Direction    string           `json:"direction" binding:"omitempty,oneof=discount surcharge"`
	Value        decimal.Decimal  `json:"value" binding:"required"`
	ValidFrom    string           `json:"valid_from" binding:"required,datetime=2006-01-02"`
	ValidTo      string           `json:"valid_to" binding:"required,datetime=2006-01-02"`
	Description  string           `json:"description" binding:"required,max=200"`
}

// RuleResponse represents a pricing rule in API responses
type RuleResponse struct {
	ID           uuid.UUID        `json:"id"`
	PriceListID  uuid.UUID        `json:"price_list_id"`
	Code         string           `json:"code"`
	Kind         string           `json:"kind"`
	Priority     int              `json:"priority"`
	Channel      string           `json:"channel,omitempty"`
	LineID       *uuid.UUID       `json:"line_id,omitempty"`
	GroupID      *uuid.UUID       `json:"group_id,omitempty"`
	ArticleID    *uuid.UUID       `json:"article_id,omitempty"`
	MinQuantity  *decimal.Decimal `json:"min_quantity,omitempty"`
	MinAmount    *decimal.Decimal `json:"min_amount,omitempty"`
	DiscountType string           `json:"discount_type"`
	Direction    string           `json:"direction"`
	Value        decimal.Decimal  `json:"value"`
	ValidFrom    string           `json:"valid_from"`
	ValidTo      string           `json:"valid_to"`
	Description  string           `json:"description"`
	Status       string           `json:"status"`
	Version      int              `json:"version"`
}

// PriceListFilter selects the price lists in force
type PriceListFilter struct {
	BranchID *uuid.UUID `form:"branch_id"`
	Channel  string     `form:"channel"`
	Date     string     `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// PriceListResponse represents a price list in API responses
type PriceListResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	BranchID  uuid.UUID `json:"branch_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	Currency  string    `json:"currency"`
	ValidFrom string    `json:"valid_from"`
	ValidTo   string    `json:"valid_to"`
	Status    string    `json:"status"`
}

// PriceHistoryResponse is one base price change
type PriceHistoryResponse struct {
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedAt time.Time       `json:"changed_at"`
	UserID    uuid.UUID       `json:"user_id"`
	Reason    string          `json:"reason"`
}

// RuleAuditResponse is one recorded rule change
type RuleAuditResponse struct {
	Action    string          `json:"action"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	ChangedAt time.Time       `json:"changed_at"`
	UserID    uuid.UUID       `json:"user_id"`
	Reason    string          `json:"reason,omitempty"`
}

// ParseDate parses an optional calendar date. Empty means zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Dates must use the YYYY-MM-DD format")
	}
	return t, nil
}

// ToQuoteResponse converts a pricing result
func ToQuoteResponse(r *pricing.PricingResult) QuoteResponse {
	return QuoteResponse{
		ArticleID:     r.ArticleID,
		PriceListID:   r.PriceListID,
		Channel:       string(r.Channel),
		Quantity:      r.Quantity,
		BasePrice:     r.BasePrice,
		FinalPrice:    r.FinalPrice,
		DiscountTotal: r.DiscountTotal,
		AppliedRules:  r.AppliedRules,
		BelowCost:     r.BelowCost,
		LineTotal:     valueobject.RoundCents(r.LineTotal()),
	}
}

// ToRuleResponse converts a domain rule
func ToRuleResponse(r *pricing.PricingRule) RuleResponse {
	return RuleResponse{
		ID:           r.ID,
		PriceListID:  r.PriceListID,
		Code:         r.Code,
		Kind:         string(r.Kind),
		Priority:     r.Priority,
		Channel:      string(r.Channel),
		LineID:       r.LineID,
		GroupID:      r.GroupID,
		ArticleID:    r.ArticleID,
		MinQuantity:  r.MinQuantity,
		MinAmount:    r.MinAmount,
		DiscountType: string(r.DiscountType),
		Direction:    string(r.Direction),
		Value:        r.Value,
		ValidFrom:    r.ValidFrom.Format(DateLayout),
		ValidTo:      r.ValidTo.Format(DateLayout),
		Description:  r.Description,
		Status:       string(r.Status),
		Version:      r.GetVersion(),
	}
}

// ToRuleResponses converts a slice of rules
func ToRuleResponses(rules []*pricing.PricingRule) []RuleResponse {
	out := make([]RuleResponse, len(rules))
	for i, r := range rules {
		out[i] = ToRuleResponse(r)
	}
	return out
}

// ToPriceListResponse converts a domain price list
func ToPriceListResponse(p *pricing.PriceList) PriceListResponse {
	return PriceListResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		BranchID:  p.BranchID,
		Code:      p.Code,
		Name:      p.Name,
		Type:      string(p.Type),
		Channel:   string(p.Channel),
		Currency:  string(p.Currency),
		ValidFrom: p.ValidFrom.Format(DateLayout),
		ValidTo:   p.ValidTo.Format(DateLayout),
		Status:    string(p.Status),
	}
}

// ToArticlePriceResponse converts a price entry
func ToArticlePriceResponse(p *pricing.ArticlePrice) ArticlePriceResponse {
	return ArticlePriceResponse{
		ID:           p.ID,
		PriceListID:  p.PriceListID,
		ArticleID:    p.ArticleID,
		BasePrice:    p.BasePrice,
		MinimumPrice: p.MinimumPrice,
		Status:       string(p.Status),
		UpdatedAt:    p.UpdatedAt,
	}
}
