package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/shared"
)

// ArticlePrice is the base and minimum price of one article in one price list.
// There is at most one entry per (price list, article).
type ArticlePrice struct {
	shared.TenantAggregateRoot
	PriceListID  uuid.UUID
	ArticleID    uuid.UUID
	BasePrice    decimal.Decimal
	MinimumPrice decimal.Decimal
	Status       Status
}

// NewArticlePrice creates an active price entry
func NewArticlePrice(tenantID, priceListID, articleID uuid.UUID, base, minimum decimal.Decimal) (*ArticlePrice, error) {
	if err := validatePrices(base, minimum); err != nil {
		return nil, err
	}
	return &ArticlePrice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PriceListID:         priceListID,
		ArticleID:           articleID,
		BasePrice:           base,
		MinimumPrice:        minimum,
		Status:              StatusActive,
	}, nil
}

// Reprice replaces base and minimum price and returns the previous base price
func (p *ArticlePrice) Reprice(base, minimum decimal.Decimal) (decimal.Decimal, error) {
	if err := validatePrices(base, minimum); err != nil {
		return decimal.Zero, err
	}
	previous := p.BasePrice
	p.BasePrice = base
	p.MinimumPrice = minimum
	p.IncrementVersion()
	return previous, nil
}

// IsActive returns true if the entry can be used for pricing
func (p *ArticlePrice) IsActive() bool {
	return p.Status == StatusActive
}

func validatePrices(base, minimum decimal.Decimal) error {
	if base.IsNegative() {
		return shared.NewDomainError(CodeInvalidPrice, "Base price cannot be negative")
	}
	if minimum.IsNegative() {
		return shared.NewDomainError(CodeInvalidPrice, "Minimum price cannot be negative")
	}
	if minimum.GreaterThan(base) {
		return shared.NewDomainError(CodeInvalidPrice, "Minimum price cannot be greater than base price")
	}
	return nil
}
