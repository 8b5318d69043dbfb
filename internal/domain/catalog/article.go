package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a catalog entity
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Line is the top level of the two-level article hierarchy
type Line struct {
	ID     uuid.UUID
	Code   string
	Name   string
	Status Status
}

// Group belongs to exactly one Line
type Group struct {
	ID     uuid.UUID
	Code   string
	Name   string
	LineID uuid.UUID
	Status Status
}

// Article is a read-only snapshot of a catalog article used for pricing.
// GroupID and LineID are resolved together so rule matching never needs
// a second lookup to walk the hierarchy.
type Article struct {
	shared.TenantAggregateRoot
	Code           string
	Barcode        string
	Description    string
	Unit           string
	CurrentCost    decimal.Decimal
	SuggestedPrice decimal.Decimal
	GroupID        uuid.UUID
	LineID         uuid.UUID
	Status         Status
}

// NewArticle creates a new article inside the given group
func NewArticle(tenantID uuid.UUID, code, description string, group Group) (*Article, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Article code cannot be empty")
	}
	if len(code) > 10 {
		return nil, shared.NewDomainError("INVALID_CODE", "Article code cannot exceed 10 characters")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Article description cannot be empty")
	}
	if group.ID == uuid.Nil || group.LineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GROUP", "Article must belong to a group within a line")
	}

	return &Article{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Description:         description,
		CurrentCost:         decimal.Zero,
		SuggestedPrice:      decimal.Zero,
		GroupID:             group.ID,
		LineID:              group.LineID,
		Status:              StatusActive,
	}, nil
}

// SetCost sets the current cost of the article
func (a *Article) SetCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Article cost cannot be negative")
	}
	a.CurrentCost = cost
	return nil
}

// SetSuggestedPrice sets the suggested selling price
func (a *Article) SetSuggestedPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Suggested price cannot be negative")
	}
	a.SuggestedPrice = price
	return nil
}

// IsActive returns true if the article can be sold
func (a *Article) IsActive() bool {
	return a.Status == StatusActive
}

// BelongsTo reports whether the article is the given article, or sits under
// the given group or line.
func (a *Article) BelongsTo(ref uuid.UUID) bool {
	if ref == uuid.Nil {
		return false
	}
	return ref == a.ID || ref == a.GroupID || ref == a.LineID
}
