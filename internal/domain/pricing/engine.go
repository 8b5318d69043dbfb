package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
)

// ResolveBase returns the base and minimum price of the article in the list.
// A missing or inactive entry yields PriceNotConfiguredError.
func ResolveBase(ctx context.Context, prices ArticlePriceRepository, article *catalog.Article, priceList *PriceList) (decimal.Decimal, decimal.Decimal, error) {
	entry, err := prices.FindByListAndArticle(ctx, priceList.ID, article.ID)
	if err != nil {
		if errors.Is(err, ErrArticlePriceNotFound) {
			return decimal.Zero, decimal.Zero, NewPriceNotConfiguredError(article.ID, priceList.ID)
		}
		return decimal.Zero, decimal.Zero, err
	}
	if !entry.IsActive() {
		return decimal.Zero, decimal.Zero, NewPriceNotConfiguredError(article.ID, priceList.ID)
	}
	return entry.BasePrice, entry.MinimumPrice, nil
}

// ApplyRules applies the rules in order, each on the output of the previous one.
// Only rules that changed the price are traced.
func ApplyRules(base decimal.Decimal, rules []*PricingRule) (decimal.Decimal, decimal.Decimal, []string) {
	running := base
	discount := decimal.Zero
	trace := make([]string, 0, len(rules))
	for _, r := range rules {
		delta := r.Adjustment().Delta(running)
		running = running.Sub(delta)
		discount = discount.Add(delta)
		if !delta.IsZero() {
			trace = append(trace, r.Description)
		}
	}
	return running, discount, trace
}

// EnforceFloor clamps the price to the minimum. When clamped, the discount is
// recomputed as base - minimum and the trace gets FloorMarker.
func EnforceFloor(running, minimum, base, discount decimal.Decimal, trace []string) (decimal.Decimal, decimal.Decimal, []string, bool) {
	if running.LessThan(minimum) {
		return minimum, base.Sub(minimum), append(trace, FloorMarker), true
	}
	return running, discount, trace, false
}

// IsBelowCost reports whether the final price is strictly lower than cost
func IsBelowCost(finalPrice, cost decimal.Decimal) bool {
	return finalPrice.LessThan(cost)
}

// Calculation is the input of Engine.CalculatePrice
type Calculation struct {
	Article   *catalog.Article
	PriceList *PriceList
	Channel   Channel
	Quantity  decimal.Decimal
	// On defaults to today in the engine location
	On time.Time
}

// Engine computes final unit prices. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	prices   ArticlePriceRepository
	rules    RuleRepository
	location *time.Location
	now      func() time.Time
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLocation sets the location used to decide what "today" is
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithClock overrides the clock, mostly for tests
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a pricing engine backed by the given repositories
func NewEngine(prices ArticlePriceRepository, rules RuleRepository, opts ...EngineOption) *Engine {
	e := &Engine{
		prices:   prices,
		rules:    rules,
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current date in the engine location
func (e *Engine) Today() time.Time {
	return Date(e.now().In(e.location))
}

// CalculatePrice resolves the base price, applies the matching rules,
// enforces the minimum price and flags below-cost sales. Collaborator errors
// are returned unchanged and no partial result is produced.
func (e *Engine) CalculatePrice(ctx context.Context, c Calculation) (*PricingResult, error) {
	on := c.On
	if on.IsZero() {
		on = e.Today()
	}

	base, minimum, err := ResolveBase(ctx, e.prices, c.Article, c.PriceList)
	if err != nil {
		return nil, err
	}

	candidates, err := e.rules.FindApplicable(ctx, c.PriceList.ID, on)
	if err != nil {
		return nil, err
	}
	rules := SelectRules(candidates, c.PriceList, Target{
		Article:  c.Article,
		Channel:  c.Channel,
		Quantity: c.Quantity,
		Amount:   base.Mul(c.Quantity),
		On:       on,
	})

	running, discount, trace := ApplyRules(base, rules)
	finalPrice, discount, trace, clamped := EnforceFloor(running, minimum, base, discount, trace)

	return &PricingResult{
		ArticleID:     c.Article.ID,
		PriceListID:   c.PriceList.ID,
		Channel:       c.Channel,
		Quantity:      c.Quantity,
		BasePrice:     base,
		MinimumPrice:  minimum,
		FinalPrice:    valueobject.RoundCents(finalPrice),
		DiscountTotal: valueobject.RoundCents(discount),
		AppliedRules:  trace,
		BelowCost:     IsBelowCost(finalPrice, c.Article.CurrentCost),
		FloorApplied:  clamped,
	}, nil
}
