package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/shared"
)

// Error codes raised by the pricing domain
const (
	CodePriceNotConfigured = "PRICE_NOT_CONFIGURED"
	CodePriceListNotFound  = "PRICE_LIST_NOT_FOUND"
	CodeRuleNotFound       = "RULE_NOT_FOUND"
	CodeInvalidRule        = "INVALID_RULE"
	CodeInvalidPrice       = "INVALID_PRICE"
)

var (
	ErrPriceListNotFound  = shared.NewDomainError(CodePriceListNotFound, "Price list not found")
	ErrRuleNotFound       = shared.NewDomainError(CodeRuleNotFound, "Pricing rule not found")
	errPriceNotConfigured = shared.NewDomainError(CodePriceNotConfigured, "Price not configured")
)

// PriceNotConfiguredError is returned when an article has no active price
// entry in a price list. It is a configuration problem and is never retried.
type PriceNotConfiguredError struct {
	ArticleID   uuid.UUID
	PriceListID uuid.UUID
}

// NewPriceNotConfiguredError creates the error for the given pair
func NewPriceNotConfiguredError(articleID, priceListID uuid.UUID) *PriceNotConfiguredError {
	return &PriceNotConfiguredError{ArticleID: articleID, PriceListID: priceListID}
}

func (e *PriceNotConfiguredError) Error() string {
	return fmt.Sprintf("article %s has no active price in price list %s", e.ArticleID, e.PriceListID)
}

// Unwrap exposes the domain error so callers can map it by code
func (e *PriceNotConfiguredError) Unwrap() error {
	return errPriceNotConfigured
}

// DomainError returns a domain error carrying the detailed message
func (e *PriceNotConfiguredError) DomainError() *shared.DomainError {
	return shared.NewDomainError(CodePriceNotConfigured, e.Error())
}

func invalidRule(msg string) error {
	return shared.NewDomainError(CodeInvalidRule, msg)
}
