package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	pricingapp "github.com/trading-system/backend/internal/application/pricing"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/interfaces/http/middleware"
)

func newPricingTest() (*mockQuoteService, *mockAdminService, http.Handler) {
	quotes := new(mockQuoteService)
	admin := new(mockAdminService)
	return quotes, admin, newTestRouter(NewPricingHandler(quotes, admin))
}

func TestPricingHandler_Quote(t *testing.T) {
	articleID := uuid.New()
	listID := uuid.New()

	t.Run("success", func(t *testing.T) {
		quotes, _, r := newPricingTest()
		quotes.On("QuotePrice", mock.Anything, mock.MatchedBy(func(req pricingapp.QuoteRequest) bool {
			return req.ArticleID == articleID && req.Channel == "B2B" && req.Quantity.Equal(decimal.NewFromInt(12))
		})).Return(&pricingapp.QuoteResponse{
			ArticleID:    articleID,
			PriceListID:  listID,
			Channel:      "B2B",
			BasePrice:    decimal.NewFromInt(100),
			FinalPrice:   decimal.NewFromInt(90),
			AppliedRules: []string{"QB10"},
		}, nil)

		w := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", map[string]any{
			"article_id":    articleID,
			"price_list_id": listID,
			"channel":       "B2B",
			"quantity":      12,
		})

		require.Equal(t, http.StatusOK, w.Code)
		var got pricingapp.QuoteResponse
		resp := decode(t, w, &got)
		assert.True(t, resp.Success)
		assert.True(t, got.FinalPrice.Equal(decimal.NewFromInt(90)))
		assert.Equal(t, []string{"QB10"}, got.AppliedRules)
		quotes.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		quotes, _, r := newPricingTest()
		w := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", map[string]any{"channel": "B2B"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w, nil)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.NotEmpty(t, resp.Error.Details)
		quotes.AssertNotCalled(t, "QuotePrice", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, _, r := newPricingTest()
		w := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", "{not json")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", decode(t, w, nil).Error.Code)
	})

	t.Run("price not configured", func(t *testing.T) {
		quotes, _, r := newPricingTest()
		quotes.On("QuotePrice", mock.Anything, mock.Anything).
			Return(nil, pricing.NewPriceNotConfiguredError(articleID, listID))

		w := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", map[string]any{
			"article_id":    articleID,
			"price_list_id": listID,
			"channel":       "B2C",
			"quantity":      1,
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w, nil)
		assert.Equal(t, pricing.CodePriceNotConfigured, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, articleID.String())
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("unknown price list", func(t *testing.T) {
		quotes, _, r := newPricingTest()
		quotes.On("QuotePrice", mock.Anything, mock.Anything).Return(nil, pricing.ErrPriceListNotFound)

		w := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", map[string]any{
			"article_id":    articleID,
			"price_list_id": listID,
			"channel":       "B2C",
			"quantity":      1,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unexpected error hides details", func(t *testing.T) {
		quotes, _, r := newPricingTest()
		quotes.On("QuotePrice", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		w := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", map[string]any{
			"article_id":    articleID,
			"price_list_id": listID,
			"channel":       "B2C",
			"quantity":      1,
		})
		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decode(t, w, nil)
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
	})
}

func TestPricingHandler_Simulate(t *testing.T) {
	quotes, _, r := newPricingTest()
	listID := uuid.New()
	quotes.On("Simulate", mock.Anything, mock.MatchedBy(func(req pricingapp.SimulateRequest) bool {
		return len(req.Lines) == 2
	})).Return(&pricingapp.SimulateResponse{
		PriceListID:      listID,
		Total:            decimal.NewFromInt(250),
		RequiresApproval: true,
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/pricing/simulate", map[string]any{
		"price_list_id": listID,
		"channel":       "ECOMMERCE",
		"lines": []map[string]any{
			{"article_id": uuid.New(), "quantity": 1},
			{"article_id": uuid.New(), "quantity": 3},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got pricingapp.SimulateResponse
	decode(t, w, &got)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(250)))
	assert.True(t, got.RequiresApproval)

	w = doJSON(t, r, http.MethodPost, "/api/v1/pricing/simulate", map[string]any{
		"price_list_id": listID,
		"channel":       "ECOMMERCE",
		"lines":         []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPricingHandler_ListCurrent(t *testing.T) {
	tenant := uuid.New()
	branch := uuid.New()

	t.Run("passes filters and tenant", func(t *testing.T) {
		_, admin, r := newPricingTest()
		admin.On("ListCurrentPriceLists", mock.Anything, tenant, mock.MatchedBy(func(f pricingapp.PriceListFilter) bool {
			return f.BranchID != nil && *f.BranchID == branch && f.Channel == "B2B" && f.Date == "2024-03-01"
		})).Return([]pricingapp.PriceListResponse{{Code: "LP01"}}, nil)

		w := doJSON(t, r, http.MethodGet,
			"/api/v1/price-lists/current?branch_id="+branch.String()+"&channel=B2B&date=2024-03-01", nil,
			middleware.TenantIDHeader, tenant.String())

		require.Equal(t, http.StatusOK, w.Code)
		var got []pricingapp.PriceListResponse
		decode(t, w, &got)
		require.Len(t, got, 1)
		assert.Equal(t, "LP01", got[0].Code)
		admin.AssertExpectations(t)
	})

	t.Run("no filters", func(t *testing.T) {
		_, admin, r := newPricingTest()
		admin.On("ListCurrentPriceLists", mock.Anything, middleware.DefaultTenantID, pricingapp.PriceListFilter{}).
			Return([]pricingapp.PriceListResponse{}, nil)

		w := doJSON(t, r, http.MethodGet, "/api/v1/price-lists/current", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		admin.AssertExpectations(t)
	})

	t.Run("bad branch", func(t *testing.T) {
		_, _, r := newPricingTest()
		w := doJSON(t, r, http.MethodGet, "/api/v1/price-lists/current?branch_id=main", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		_, admin, r := newPricingTest()
		admin.On("ListCurrentPriceLists", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_DATE", "Dates must use the YYYY-MM-DD format"))

		w := doJSON(t, r, http.MethodGet, "/api/v1/price-lists/current?date=01/03/2024", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPricingHandler_UpsertPrice(t *testing.T) {
	listID := uuid.New()
	articleID := uuid.New()
	user := uuid.New()
	path := "/api/v1/price-lists/" + listID.String() + "/prices/" + articleID.String()

	t.Run("success records actor", func(t *testing.T) {
		_, admin, r := newPricingTest()
		admin.On("UpsertArticlePrice", mock.Anything,
			mock.MatchedBy(func(rc shared.RequestContext) bool {
				return rc.UserID == user && rc.Reason == "new supplier cost"
			}),
			listID, articleID,
			mock.MatchedBy(func(req pricingapp.UpsertPriceRequest) bool {
				return req.BasePrice.Equal(decimal.RequireFromString("19.90"))
			}),
		).Return(&pricingapp.ArticlePriceResponse{PriceListID: listID, ArticleID: articleID, BasePrice: decimal.RequireFromString("19.90")}, nil)

		w := doJSON(t, r, http.MethodPut, path, map[string]any{
			"base_price":    "19.90",
			"minimum_price": "15.00",
		}, middleware.UserIDHeader, user.String(), middleware.AuditReasonHeader, "new supplier cost")

		require.Equal(t, http.StatusOK, w.Code)
		admin.AssertExpectations(t)
	})

	t.Run("below cost not authorized", func(t *testing.T) {
		_, admin, r := newPricingTest()
		admin.On("UpsertArticlePrice", mock.Anything, mock.Anything, listID, articleID, mock.Anything).
			Return(nil, pricingapp.ErrBelowCostNotAuthorized)

		w := doJSON(t, r, http.MethodPut, path, map[string]any{
			"base_price":    "1.00",
			"minimum_price": "1.00",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "BELOW_COST_NOT_AUTHORIZED", decode(t, w, nil).Error.Code)
	})

	t.Run("bad status", func(t *testing.T) {
		_, _, r := newPricingTest()
		w := doJSON(t, r, http.MethodPut, path, map[string]any{
			"base_price":    "1.00",
			"minimum_price": "1.00",
			"status":        "archived",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad path id", func(t *testing.T) {
		_, _, r := newPricingTest()
		w := doJSON(t, r, http.MethodPut, "/api/v1/price-lists/x/prices/"+articleID.String(), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPricingHandler_PriceHistory(t *testing.T) {
	_, admin, r := newPricingTest()
	listID := uuid.New()
	articleID := uuid.New()
	admin.On("PriceHistory", mock.Anything, listID, articleID).Return([]pricingapp.PriceHistoryResponse{
		{OldPrice: decimal.NewFromInt(10), NewPrice: decimal.NewFromInt(12), Reason: "increase"},
	}, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/price-lists/"+listID.String()+"/prices/"+articleID.String()+"/history", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []pricingapp.PriceHistoryResponse
	decode(t, w, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "increase", got[0].Reason)
}

func TestPricingHandler_ActiveRules(t *testing.T) {
	_, admin, r := newPricingTest()
	listID := uuid.New()
	admin.On("ListActiveRules", mock.Anything, listID, "2024-06-30").
		Return([]pricingapp.RuleResponse{{Code: "CH01"}, {Code: "QB10"}}, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/price-lists/"+listID.String()+"/rules/active?date=2024-06-30", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []pricingapp.RuleResponse
	decode(t, w, &got)
	assert.Len(t, got, 2)
}
