package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/catalog"
)

// Target describes what is being priced when selecting rules
type Target struct {
	Article  *catalog.Article
	Channel  Channel
	Quantity decimal.Decimal
	// Amount is the line amount at base price (base price * quantity)
	Amount decimal.Decimal
	On     time.Time
}

// Matches reports whether the rule applies to the target.
// Price list membership is the caller's filter.
func (r *PricingRule) Matches(t Target) bool {
	if !r.IsActive() || !r.ValidOn(t.On) {
		return false
	}
	if !r.matchesHierarchy(t.Article) {
		return false
	}
	if r.Channel != "" && r.Channel != t.Channel {
		return false
	}
	if r.MinQuantity != nil && t.Quantity.LessThan(*r.MinQuantity) {
		return false
	}
	if r.MinAmount != nil && t.Amount.LessThan(*r.MinAmount) {
		return false
	}
	return true
}

func (r *PricingRule) matchesHierarchy(a *catalog.Article) bool {
	if a == nil {
		return false
	}
	return (r.ArticleID != nil && *r.ArticleID == a.ID) ||
		(r.GroupID != nil && *r.GroupID == a.GroupID) ||
		(r.LineID != nil && *r.LineID == a.LineID)
}

// SelectRules returns the rules of the price list that apply to the target,
// ordered by priority. Ties fall back to creation time, then ID.
func SelectRules(rules []*PricingRule, priceList *PriceList, t Target) []*PricingRule {
	selected := make([]*PricingRule, 0, len(rules))
	for _, r := range rules {
		if r.PriceListID != priceList.ID {
			continue
		}
		if r.Matches(t) {
			selected = append(selected, r)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return selected
}
