package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/shared"
)

// RuleKind classifies what a rule is scoped by
type RuleKind string

const (
	RuleKindChannel       RuleKind = "channel"
	RuleKindQuantityBreak RuleKind = "quantity_break"
	RuleKindAmountBreak   RuleKind = "amount_break"
	RuleKindLine          RuleKind = "line"
	RuleKindGroup         RuleKind = "group"
	RuleKindArticle       RuleKind = "article"
	RuleKindOrderAmount   RuleKind = "order_amount"
	RuleKindCombination   RuleKind = "combination"
)

// IsValid checks if the rule kind is a known value
func (k RuleKind) IsValid() bool {
	switch k {
	case RuleKindChannel, RuleKindQuantityBreak, RuleKindAmountBreak, RuleKindLine,
		RuleKindGroup, RuleKindArticle, RuleKindOrderAmount, RuleKindCombination:
		return true
	}
	return false
}

// PricingRule is a conditional discount or surcharge within a price list.
// Nil scope pointers mean the dimension is not restricted.
type PricingRule struct {
	shared.TenantAggregateRoot
	PriceListID  uuid.UUID
	Code         string
	Kind         RuleKind
	Priority     int
	Channel      Channel
	LineID       *uuid.UUID
	GroupID      *uuid.UUID
	ArticleID    *uuid.UUID
	MinQuantity  *decimal.Decimal
	MinAmount    *decimal.Decimal
	DiscountType DiscountType
	Direction    Direction
	Value        decimal.Decimal
	ValidFrom    time.Time
	ValidTo      time.Time
	Description  string
	Status       Status
}

// RuleSpec carries the editable attributes of a rule
type RuleSpec struct {
	PriceListID  uuid.UUID
	Code         string
	Kind         RuleKind
	Priority     int
	Channel      Channel
	LineID       *uuid.UUID
	GroupID      *uuid.UUID
	ArticleID    *uuid.UUID
	MinQuantity  *decimal.Decimal
	MinAmount    *decimal.Decimal
	DiscountType DiscountType
	Direction    Direction
	Value        decimal.Decimal
	ValidFrom    time.Time
	ValidTo      time.Time
	Description  string
}

// NewPricingRule validates the spec and creates an active rule
func NewPricingRule(tenantID uuid.UUID, spec RuleSpec) (*PricingRule, error) {
	r := &PricingRule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              StatusActive,
	}
	r.apply(spec)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the editable attributes. The rule is left untouched on error.
func (r *PricingRule) Update(spec RuleSpec) error {
	next := *r
	next.apply(spec)
	if err := next.Validate(); err != nil {
		return err
	}
	*r = next
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Activate marks the rule as active
func (r *PricingRule) Activate() error {
	if r.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Pricing rule is already active")
	}
	r.Status = StatusActive
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Deactivate marks the rule as inactive
func (r *PricingRule) Deactivate() error {
	if r.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Pricing rule is already inactive")
	}
	r.Status = StatusInactive
	r.Touch()
	r.IncrementVersion()
	return nil
}

func (r *PricingRule) apply(spec RuleSpec) {
	r.PriceListID = spec.PriceListID
	r.Code = strings.ToUpper(strings.TrimSpace(spec.Code))
	r.Kind = spec.Kind
	r.Priority = spec.Priority
	r.Channel = spec.Channel
	r.LineID = nonNil(spec.LineID)
	r.GroupID = nonNil(spec.GroupID)
	r.ArticleID = nonNil(spec.ArticleID)
	r.MinQuantity = spec.MinQuantity
	r.MinAmount = spec.MinAmount
	r.DiscountType = spec.DiscountType
	r.Direction = spec.Direction
	if r.Direction == "" {
		r.Direction = DirectionDiscount
	}
	r.Value = spec.Value
	r.ValidFrom = Date(spec.ValidFrom)
	r.ValidTo = Date(spec.ValidTo)
	r.Description = strings.TrimSpace(spec.Description)
}

// Validate checks the rule invariants enforced at creation and update time
func (r *PricingRule) Validate() error {
	if r.PriceListID == uuid.Nil {
		return invalidRule("Pricing rule must belong to a price list")
	}
	if r.Code == "" || len(r.Code) > 10 {
		return invalidRule("Rule code must have between 1 and 10 characters")
	}
	if !r.Kind.IsValid() {
		return invalidRule("Unknown rule kind: " + string(r.Kind))
	}
	if r.Channel == "" && r.LineID == nil && r.GroupID == nil && r.ArticleID == nil {
		return invalidRule("At least one applicability criterion is required (channel, line, group or article)")
	}
	switch r.Kind {
	case RuleKindQuantityBreak:
		if r.MinQuantity == nil || !r.MinQuantity.IsPositive() {
			return invalidRule("Quantity break rules require a minimum quantity")
		}
	case RuleKindAmountBreak:
		if r.MinAmount == nil || !r.MinAmount.IsPositive() {
			return invalidRule("Amount break rules require a minimum amount")
		}
	}
	if r.ValidFrom.IsZero() || r.ValidTo.IsZero() {
		return invalidRule("Rule validity window is required")
	}
	if r.ValidFrom.After(r.ValidTo) {
		return invalidRule("Rule end date must be on or after its start date")
	}
	if !r.DiscountType.IsValid() {
		return invalidRule("Unknown discount type: " + string(r.DiscountType))
	}
	if !r.Direction.IsValid() {
		return invalidRule("Unknown direction: " + string(r.Direction))
	}
	if r.Value.IsNegative() {
		return invalidRule("Discount value cannot be negative")
	}
	if r.DiscountType == DiscountTypePercentage && r.Value.GreaterThan(hundred) {
		return invalidRule("Percentage cannot be greater than 100")
	}
	if r.Description == "" {
		return invalidRule("Rule description is required")
	}
	return nil
}

// Adjustment returns the delta computation for this rule
func (r *PricingRule) Adjustment() Adjustment {
	adj, err := NewAdjustment(r.Direction, r.DiscountType, r.Value)
	if err != nil {
		// rules are validated on write, a corrupt row adjusts nothing
		return FixedDiscount{Amount: decimal.Zero}
	}
	return adj
}

// IsActive returns true if the rule is active
func (r *PricingRule) IsActive() bool {
	return r.Status == StatusActive
}

// ValidOn reports whether the date lies inside the rule validity window
func (r *PricingRule) ValidOn(on time.Time) bool {
	return Within(on, r.ValidFrom, r.ValidTo)
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}
