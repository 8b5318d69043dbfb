package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/shared"
)

// ErrArticlePriceNotFound is returned when no entry exists for (price list, article)
var ErrArticlePriceNotFound = shared.NewDomainError("ARTICLE_PRICE_NOT_FOUND", "Article price not found")

// CurrentListFilter selects price lists that are in force on a date
type CurrentListFilter struct {
	TenantID uuid.UUID
	BranchID *uuid.UUID
	Channel  Channel
	On       time.Time
}

// PriceListRepository defines persistence for price lists
type PriceListRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PriceList, error)
	// FindCurrent returns active lists whose validity window covers the date, ordered by code
	FindCurrent(ctx context.Context, filter CurrentListFilter) ([]*PriceList, error)
	Save(ctx context.Context, list *PriceList) error
}

// ArticlePriceRepository defines persistence for price entries
type ArticlePriceRepository interface {
	// FindByListAndArticle returns ErrArticlePriceNotFound when there is no entry
	FindByListAndArticle(ctx context.Context, priceListID, articleID uuid.UUID) (*ArticlePrice, error)
	Save(ctx context.Context, price *ArticlePrice) error
}

// RuleRepository defines persistence for pricing rules
type RuleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PricingRule, error)
	// FindApplicable returns the active rules of the list valid on the date, ordered by priority
	FindApplicable(ctx context.Context, priceListID uuid.UUID, on time.Time) ([]*PricingRule, error)
	Save(ctx context.Context, rule *PricingRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRepository stores price history and rule audit records
type AuditRepository interface {
	SavePriceHistory(ctx context.Context, h *PriceHistory) error
	SaveRuleAudit(ctx context.Context, a *RuleAudit) error
	ListPriceHistory(ctx context.Context, priceListID, articleID uuid.UUID) ([]*PriceHistory, error)
	ListRuleAudits(ctx context.Context, ruleID uuid.UUID) ([]*RuleAudit, error)
}

// AuthorizationRepository looks up supplier discount authorizations
type AuthorizationRepository interface {
	// HasActive reports whether an active authorization covers the article on the date
	HasActive(ctx context.Context, article *catalog.Article, on time.Time) (bool, error)
	Save(ctx context.Context, auth *SupplierAuthorization) error
}
