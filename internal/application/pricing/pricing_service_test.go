package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
)

var (
	tenantID    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedDay    = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	// peripherals is the product line the pricing fixtures sell from
	peripherals = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type pricingFixture struct {
	articles  *MockArticleRepository
	lists     *MockPriceListRepository
	prices    *MockArticlePriceRepository
	rules     *MockRuleRepository
	service   *PricingService
	priceList *pricing.PriceList
	article   *catalog.Article
}

func newPricingFixture(t *testing.T) *pricingFixture {
	t.Helper()
	f := &pricingFixture{
		articles: new(MockArticleRepository),
		lists:    new(MockPriceListRepository),
		prices:   new(MockArticlePriceRepository),
		rules:    new(MockRuleRepository),
	}
	var err error
	f.priceList, err = pricing.NewPriceList(tenantID, uuid.New(), "PL1", "Retail", pricing.ChannelB2C, valueobject.USD,
		fixedDay.AddDate(0, -1, 0), fixedDay.AddDate(0, 1, 0))
	require.NoError(t, err)
	f.article, err = catalog.NewArticle(tenantID, "A1", "Keyboard", catalog.Group{ID: uuid.New(), LineID: peripherals})
	require.NoError(t, err)
	f.article.CurrentCost = dec("60")

	engine := pricing.NewEngine(f.prices, f.rules, pricing.WithClock(func() time.Time { return fixedDay }))
	f.service = NewPricingService(f.articles, f.lists, engine)
	return f
}

func (f *pricingFixture) withPrice(t *testing.T, base, minimum string) {
	t.Helper()
	entry, err := pricing.NewArticlePrice(tenantID, f.priceList.ID, f.article.ID, dec(base), dec(minimum))
	require.NoError(t, err)
	f.prices.On("FindByListAndArticle", mock.Anything, f.priceList.ID, f.article.ID).Return(entry, nil)
}

func (f *pricingFixture) withRules(t *testing.T, specs ...pricing.RuleSpec) {
	t.Helper()
	var rules []*pricing.PricingRule
	for _, spec := range specs {
		spec.PriceListID = f.priceList.ID
		r, err := pricing.NewPricingRule(tenantID, spec)
		require.NoError(t, err)
		rules = append(rules, r)
	}
	f.rules.On("FindApplicable", mock.Anything, f.priceList.ID, mock.Anything).Return(rules, nil)
}

func percentRule(priority int, value, description string) pricing.RuleSpec {
	return pricing.RuleSpec{
		Code:         "R1",
		Kind:         pricing.RuleKindChannel,
		Priority:     priority,
		Channel:      pricing.ChannelB2C,
		LineID:       &peripherals,
		DiscountType: pricing.DiscountTypePercentage,
		Value:        dec(value),
		ValidFrom:    fixedDay.AddDate(0, 0, -1),
		ValidTo:      fixedDay.AddDate(0, 0, 1),
		Description:  description,
	}
}

func TestPricingService_QuotePrice(t *testing.T) {
	f := newPricingFixture(t)
	f.withPrice(t, "100", "70")
	f.withRules(t, percentRule(1, "10", "Ten"), percentRule(2, "10", "Ten again"))
	f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
	f.articles.On("FindByID", mock.Anything, f.article.ID).Return(f.article, nil)

	resp, err := f.service.QuotePrice(context.Background(), QuoteRequest{
		ArticleID:   f.article.ID,
		PriceListID: f.priceList.ID,
		Channel:     "b2c",
		Quantity:    dec("2"),
	})
	require.NoError(t, err)

	assert.Equal(t, "81.00", resp.FinalPrice.StringFixed(2))
	assert.Equal(t, "19.00", resp.DiscountTotal.StringFixed(2))
	assert.Equal(t, "162.00", resp.LineTotal.StringFixed(2))
	assert.Equal(t, []string{"Ten", "Ten again"}, resp.AppliedRules)
	assert.Equal(t, "B2C", resp.Channel)
	assert.False(t, resp.BelowCost)
}

func TestPricingService_QuotePrice_RecordsMetrics(t *testing.T) {
	f := newPricingFixture(t)
	f.withPrice(t, "100", "70")
	f.withRules(t, percentRule(1, "50", "Half"))
	f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
	f.articles.On("FindByID", mock.Anything, f.article.ID).Return(f.article, nil)
	f.article.CurrentCost = dec("75")

	metrics := new(MockMetricsRecorder)
	metrics.On("RecordCalculation", mock.Anything, "B2C", OutcomeOK).Once()
	metrics.On("RecordFloorClamp", mock.Anything, "B2C").Once()
	metrics.On("RecordBelowCost", mock.Anything, "B2C").Once()
	f.service.SetMetrics(metrics)

	resp, err := f.service.QuotePrice(context.Background(), QuoteRequest{
		ArticleID: f.article.ID, PriceListID: f.priceList.ID, Channel: "B2C", Quantity: dec("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "70.00", resp.FinalPrice.StringFixed(2))
	assert.Equal(t, "30.00", resp.DiscountTotal.StringFixed(2))
	assert.Equal(t, []string{"Half", pricing.FloorMarker}, resp.AppliedRules)
	assert.True(t, resp.BelowCost)
	metrics.AssertExpectations(t)
}

func TestPricingService_QuotePrice_Errors(t *testing.T) {
	t.Run("unknown channel", func(t *testing.T) {
		f := newPricingFixture(t)
		_, err := f.service.QuotePrice(context.Background(), QuoteRequest{Channel: "fax", Quantity: dec("1")})
		assert.Error(t, err)
	})

	t.Run("price list not found", func(t *testing.T) {
		f := newPricingFixture(t)
		f.lists.On("FindByID", mock.Anything, mock.Anything).Return(nil, pricing.ErrPriceListNotFound)
		_, err := f.service.QuotePrice(context.Background(), QuoteRequest{PriceListID: uuid.New(), Channel: "B2C", Quantity: dec("1")})
		assert.ErrorIs(t, err, pricing.ErrPriceListNotFound)
	})

	t.Run("article not found", func(t *testing.T) {
		f := newPricingFixture(t)
		f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
		f.articles.On("FindByID", mock.Anything, mock.Anything).Return(nil, catalog.ErrArticleNotFound)
		_, err := f.service.QuotePrice(context.Background(), QuoteRequest{ArticleID: uuid.New(), PriceListID: f.priceList.ID, Channel: "B2C", Quantity: dec("1")})
		assert.ErrorIs(t, err, catalog.ErrArticleNotFound)
	})

	t.Run("price not configured", func(t *testing.T) {
		f := newPricingFixture(t)
		f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
		f.articles.On("FindByID", mock.Anything, f.article.ID).Return(f.article, nil)
		f.prices.On("FindByListAndArticle", mock.Anything, f.priceList.ID, f.article.ID).Return(nil, pricing.ErrArticlePriceNotFound)

		metrics := new(MockMetricsRecorder)
		metrics.On("RecordCalculation", mock.Anything, "B2C", OutcomeNotConfigured).Once()
		f.service.SetMetrics(metrics)

		resp, err := f.service.QuotePrice(context.Background(), QuoteRequest{ArticleID: f.article.ID, PriceListID: f.priceList.ID, Channel: "B2C", Quantity: dec("1")})
		assert.Nil(t, resp)
		var notConfigured *pricing.PriceNotConfiguredError
		require.ErrorAs(t, err, &notConfigured)
		assert.Equal(t, f.article.ID, notConfigured.ArticleID)
		metrics.AssertExpectations(t)
		f.rules.AssertNotCalled(t, "FindApplicable", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		f := newPricingFixture(t)
		f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
		_, err := f.service.QuotePrice(context.Background(), QuoteRequest{ArticleID: f.article.ID, PriceListID: f.priceList.ID, Channel: "B2C", Quantity: dec("0")})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newPricingFixture(t)
		_, err := f.service.QuotePrice(context.Background(), QuoteRequest{Channel: "B2C", Quantity: dec("1"), Date: "10/03/2025"})
		assert.Error(t, err)
	})
}

func TestPricingService_QuotePrice_UsesRequestedDate(t *testing.T) {
	f := newPricingFixture(t)
	f.withPrice(t, "100", "0")
	f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
	f.articles.On("FindByID", mock.Anything, f.article.ID).Return(f.article, nil)
	on := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	f.rules.On("FindApplicable", mock.Anything, f.priceList.ID, on).Return([]*pricing.PricingRule{}, nil)

	_, err := f.service.QuotePrice(context.Background(), QuoteRequest{
		ArticleID: f.article.ID, PriceListID: f.priceList.ID, Channel: "B2C", Quantity: dec("1"), Date: "2025-03-20",
	})
	require.NoError(t, err)
	f.rules.AssertExpectations(t)
}

func TestPricingService_Simulate(t *testing.T) {
	f := newPricingFixture(t)
	other, err := catalog.NewArticle(tenantID, "A2", "Mouse", catalog.Group{ID: uuid.New(), LineID: peripherals})
	require.NoError(t, err)
	other.CurrentCost = dec("9")

	f.withPrice(t, "100", "0")
	otherEntry, err := pricing.NewArticlePrice(tenantID, f.priceList.ID, other.ID, dec("10"), dec("8"))
	require.NoError(t, err)
	f.prices.On("FindByListAndArticle", mock.Anything, f.priceList.ID, other.ID).Return(otherEntry, nil)
	f.withRules(t, percentRule(1, "10", "Ten"))
	f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
	f.articles.On("FindByID", mock.Anything, f.article.ID).Return(f.article, nil)
	f.articles.On("FindByID", mock.Anything, other.ID).Return(other, nil)

	resp, err := f.service.Simulate(context.Background(), SimulateRequest{
		PriceListID: f.priceList.ID,
		Channel:     "B2C",
		Lines: []SimulateLine{
			{ArticleID: f.article.ID, Quantity: dec("2")},
			{ArticleID: other.ID, Quantity: dec("3")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "90.00", resp.Lines[0].FinalPrice.StringFixed(2))
	assert.Equal(t, "9.00", resp.Lines[1].FinalPrice.StringFixed(2))
	assert.Equal(t, "230.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "23.00", resp.DiscountTotal.StringFixed(2))
	assert.Equal(t, "207.00", resp.Total.StringFixed(2))
	assert.False(t, resp.RequiresApproval)
}

func TestPricingService_Simulate_FailsWholeRequest(t *testing.T) {
	f := newPricingFixture(t)
	f.withPrice(t, "100", "0")
	f.withRules(t)
	f.lists.On("FindByID", mock.Anything, f.priceList.ID).Return(f.priceList, nil)
	f.articles.On("FindByID", mock.Anything, f.article.ID).Return(f.article, nil)
	missing := uuid.New()
	f.articles.On("FindByID", mock.Anything, missing).Return(nil, catalog.ErrArticleNotFound)

	resp, err := f.service.Simulate(context.Background(), SimulateRequest{
		PriceListID: f.priceList.ID,
		Channel:     "B2C",
		Lines:       []SimulateLine{{ArticleID: f.article.ID, Quantity: dec("1")}, {ArticleID: missing, Quantity: dec("1")}},
	})
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, catalog.ErrArticleNotFound))

	_, err = f.service.Simulate(context.Background(), SimulateRequest{PriceListID: f.priceList.ID, Channel: "B2C"})
	assert.Error(t, err)
}
