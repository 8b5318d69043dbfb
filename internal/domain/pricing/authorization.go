package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/shared"
)

// SupplierAuthorization allows base prices below cost for an article, group
// or line during a validity window.
type SupplierAuthorization struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	SupplierID   uuid.UUID
	ArticleID    *uuid.UUID
	GroupID      *uuid.UUID
	LineID       *uuid.UUID
	Percent      decimal.Decimal
	ValidFrom    time.Time
	ValidTo      time.Time
	Status       Status
	AuthorizedBy uuid.UUID
	AuthorizedAt time.Time
}

// NewSupplierAuthorization creates an active authorization
func NewSupplierAuthorization(tenantID, supplierID uuid.UUID, percent decimal.Decimal, from, to time.Time) (*SupplierAuthorization, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_PERCENT", "Authorized percentage must be between 0 and 100")
	}
	if Date(to).Before(Date(from)) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Authorization end date cannot be before start date")
	}
	return &SupplierAuthorization{
		ID:           uuid.New(),
		TenantID:     tenantID,
		SupplierID:   supplierID,
		Percent:      percent,
		ValidFrom:    Date(from),
		ValidTo:      Date(to),
		Status:       StatusActive,
		AuthorizedAt: time.Now(),
	}, nil
}

// Covers reports whether the authorization applies to the article on the date
func (a *SupplierAuthorization) Covers(article *catalog.Article, on time.Time) bool {
	if a.Status != StatusActive || !Within(on, a.ValidFrom, a.ValidTo) {
		return false
	}
	return (a.ArticleID != nil && *a.ArticleID == article.ID) ||
		(a.GroupID != nil && *a.GroupID == article.GroupID) ||
		(a.LineID != nil && *a.LineID == article.LineID)
}
