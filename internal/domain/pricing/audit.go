package pricing

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/shared"
)

// Default reasons recorded in price history when the caller gives none
const (
	ReasonInitialPrice = "Initial price"
	ReasonPriceUpdate  = "Price update"
)

// AuditAction is the kind of change recorded for a rule
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// PriceHistory records a base price change of an article in a price list
type PriceHistory struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ArticleID   uuid.UUID
	PriceListID uuid.UUID
	OldPrice    decimal.Decimal
	NewPrice    decimal.Decimal
	ChangedAt   time.Time
	UserID      uuid.UUID
	Reason      string
}

// NewPriceHistory creates a history record. Returns nil when the price did not change.
func NewPriceHistory(rc shared.RequestContext, entry *ArticlePrice, oldPrice decimal.Decimal, created bool) *PriceHistory {
	if oldPrice.Equal(entry.BasePrice) {
		return nil
	}
	fallback := ReasonPriceUpdate
	if created {
		fallback = ReasonInitialPrice
	}
	return &PriceHistory{
		ID:          uuid.New(),
		TenantID:    entry.TenantID,
		ArticleID:   entry.ArticleID,
		PriceListID: entry.PriceListID,
		OldPrice:    oldPrice,
		NewPrice:    entry.BasePrice,
		ChangedAt:   time.Now(),
		UserID:      rc.UserID,
		Reason:      rc.ReasonOr(fallback),
	}
}

// RuleSnapshot is the audited view of a rule
type RuleSnapshot struct {
	ID           uuid.UUID        `json:"id"`
	Code         string           `json:"code"`
	PriceListID  uuid.UUID        `json:"price_list_id"`
	Kind         RuleKind         `json:"kind"`
	Priority     int              `json:"priority"`
	Channel      Channel          `json:"channel,omitempty"`
	LineID       *uuid.UUID       `json:"line_id"`
	GroupID      *uuid.UUID       `json:"group_id"`
	ArticleID    *uuid.UUID       `json:"article_id"`
	MinQuantity  *decimal.Decimal `json:"min_quantity"`
	MinAmount    *decimal.Decimal `json:"min_amount"`
	DiscountType DiscountType     `json:"discount_type"`
	Direction    Direction        `json:"direction"`
	Value        decimal.Decimal  `json:"value"`
	ValidFrom    string           `json:"valid_from"`
	ValidTo      string           `json:"valid_to"`
	Description  string           `json:"description"`
	Status       Status           `json:"status"`
}

// Snapshot captures the audited attributes of the rule
func (r *PricingRule) Snapshot() RuleSnapshot {
	return RuleSnapshot{
		ID:           r.ID,
		Code:         r.Code,
		PriceListID:  r.PriceListID,
		Kind:         r.Kind,
		Priority:     r.Priority,
		Channel:      r.Channel,
		LineID:       r.LineID,
		GroupID:      r.GroupID,
		ArticleID:    r.ArticleID,
		MinQuantity:  r.MinQuantity,
		MinAmount:    r.MinAmount,
		DiscountType: r.DiscountType,
		Direction:    r.Direction,
		Value:        r.Value,
		ValidFrom:    r.ValidFrom.Format(time.DateOnly),
		ValidTo:      r.ValidTo.Format(time.DateOnly),
		Description:  r.Description,
		Status:       r.Status,
	}
}

// RuleAudit records a create, update or delete of a pricing rule
type RuleAudit struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	RuleID    uuid.UUID
	Action    AuditAction
	Before    json.RawMessage
	After     json.RawMessage
	ChangedAt time.Time
	UserID    uuid.UUID
	Reason    string
}

// NewRuleAudit builds an audit record from the before and after snapshots.
// Either snapshot may be nil. Returns nil for an update that changed nothing.
func NewRuleAudit(rc shared.RequestContext, action AuditAction, ruleID uuid.UUID, before, after *RuleSnapshot) (*RuleAudit, error) {
	beforeJSON, err := marshalSnapshot(before)
	if err != nil {
		return nil, err
	}
	afterJSON, err := marshalSnapshot(after)
	if err != nil {
		return nil, err
	}
	if action == AuditActionUpdate && bytes.Equal(beforeJSON, afterJSON) {
		return nil, nil
	}
	return &RuleAudit{
		ID:        uuid.New(),
		TenantID:  rc.TenantID,
		RuleID:    ruleID,
		Action:    action,
		Before:    beforeJSON,
		After:     afterJSON,
		ChangedAt: time.Now(),
		UserID:    rc.UserID,
		Reason:    rc.Reason,
	}, nil
}

func marshalSnapshot(s *RuleSnapshot) (json.RawMessage, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}
