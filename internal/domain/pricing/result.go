package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FloorMarker is appended to the trace when the price was raised to the minimum
const FloorMarker = "Adjusted to minimum sale price"

// PricingResult is the outcome of one price calculation. It has no identity
// and is never persisted by the engine.
type PricingResult struct {
	ArticleID     uuid.UUID
	PriceListID   uuid.UUID
	Channel       Channel
	Quantity      decimal.Decimal
	BasePrice     decimal.Decimal
	MinimumPrice  decimal.Decimal
	FinalPrice    decimal.Decimal
	DiscountTotal decimal.Decimal
	AppliedRules  []string
	BelowCost     bool
	FloorApplied  bool
}

// LineTotal returns final price * quantity
func (r PricingResult) LineTotal() decimal.Decimal {
	return r.FinalPrice.Mul(r.Quantity)
}
