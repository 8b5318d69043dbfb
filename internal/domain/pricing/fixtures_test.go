package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
)

var (
	testTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testDay    = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	testGroup  = catalog.Group{ID: uuid.New(), Code: "G1", Name: "Cables", LineID: uuid.New()}
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func idp(id uuid.UUID) *uuid.UUID {
	return &id
}

func newTestArticle(cost string) *catalog.Article {
	a, err := catalog.NewArticle(testTenant, "ART1", "HDMI cable", testGroup)
	if err != nil {
		panic(err)
	}
	a.CurrentCost = d(cost)
	return a
}

func newTestPriceList() *PriceList {
	pl, err := NewPriceList(testTenant, uuid.New(), "PL1", "Retail", ChannelB2C, valueobject.USD,
		testDay.AddDate(0, -1, 0), testDay.AddDate(0, 1, 0))
	if err != nil {
		panic(err)
	}
	return pl
}

func baseSpec(pl *PriceList, priority int, description string) RuleSpec {
	return RuleSpec{
		PriceListID:  pl.ID,
		Code:         "R" + description[:1],
		Kind:         RuleKindChannel,
		Priority:     priority,
		Channel:      ChannelB2C,
		GroupID:      idp(testGroup.ID),
		DiscountType: DiscountTypePercentage,
		Direction:    DirectionDiscount,
		Value:        d("10"),
		ValidFrom:    testDay.AddDate(0, 0, -7),
		ValidTo:      testDay.AddDate(0, 0, 7),
		Description:  description,
	}
}

func mustRule(spec RuleSpec) *PricingRule {
	r, err := NewPricingRule(testTenant, spec)
	if err != nil {
		panic(err)
	}
	return r
}

type memPrices struct {
	entries map[[2]uuid.UUID]*ArticlePrice
	err     error
}

func newMemPrices(entries ...*ArticlePrice) *memPrices {
	m := &memPrices{entries: make(map[[2]uuid.UUID]*ArticlePrice)}
	for _, e := range entries {
		m.entries[[2]uuid.UUID{e.PriceListID, e.ArticleID}] = e
	}
	return m
}

func (m *memPrices) FindByListAndArticle(_ context.Context, listID, articleID uuid.UUID) (*ArticlePrice, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.entries[[2]uuid.UUID{listID, articleID}]
	if !ok {
		return nil, ErrArticlePriceNotFound
	}
	return e, nil
}

func (m *memPrices) Save(_ context.Context, p *ArticlePrice) error {
	m.entries[[2]uuid.UUID{p.PriceListID, p.ArticleID}] = p
	return nil
}

type memRules struct {
	rules []*PricingRule
	calls int
}

func (m *memRules) FindByID(_ context.Context, id uuid.UUID) (*PricingRule, error) {
	for _, r := range m.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrRuleNotFound
}

func (m *memRules) FindApplicable(_ context.Context, listID uuid.UUID, on time.Time) ([]*PricingRule, error) {
	m.calls++
	var out []*PricingRule
	for _, r := range m.rules {
		if r.PriceListID == listID && r.IsActive() && r.ValidOn(on) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRules) Save(_ context.Context, r *PricingRule) error {
	m.rules = append(m.rules, r)
	return nil
}

func (m *memRules) Delete(_ context.Context, id uuid.UUID) error {
	for i, r := range m.rules {
		if r.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return ErrRuleNotFound
}
