package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	pricingapp "github.com/trading-system/backend/internal/application/pricing"
	tradeapp "github.com/trading-system/backend/internal/application/trade"
	"github.com/trading-system/backend/internal/domain/shared"
)

type mockQuoteService struct{ mock.Mock }

func (m *mockQuoteService) QuotePrice(ctx context.Context, req pricingapp.QuoteRequest) (*pricingapp.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.QuoteResponse), args.Error(1)
}

func (m *mockQuoteService) Simulate(ctx context.Context, req pricingapp.SimulateRequest) (*pricingapp.SimulateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.SimulateResponse), args.Error(1)
}

type mockAdminService struct{ mock.Mock }

func (m *mockAdminService) UpsertArticlePrice(ctx context.Context, rc shared.RequestContext, priceListID, articleID uuid.UUID, req pricingapp.UpsertPriceRequest) (*pricingapp.ArticlePriceResponse, error) {
	args := m.Called(ctx, rc, priceListID, articleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.ArticlePriceResponse), args.Error(1)
}

func (m *mockAdminService) PriceHistory(ctx context.Context, priceListID, articleID uuid.UUID) ([]pricingapp.PriceHistoryResponse, error) {
	args := m.Called(ctx, priceListID, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingapp.PriceHistoryResponse), args.Error(1)
}

func (m *mockAdminService) ListActiveRules(ctx context.Context, priceListID uuid.UUID, date string) ([]pricingapp.RuleResponse, error) {
	args := m.Called(ctx, priceListID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingapp.RuleResponse), args.Error(1)
}

func (m *mockAdminService) ListCurrentPriceLists(ctx context.Context, tenantID uuid.UUID, filter pricingapp.PriceListFilter) ([]pricingapp.PriceListResponse, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingapp.PriceListResponse), args.Error(1)
}

type mockRuleService struct{ mock.Mock }

func (m *mockRuleService) rule(args mock.Arguments) (*pricingapp.RuleResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.RuleResponse), args.Error(1)
}

func (m *mockRuleService) CreateRule(ctx context.Context, rc shared.RequestContext, req pricingapp.RuleRequest) (*pricingapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, rc, req))
}

func (m *mockRuleService) UpdateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req pricingapp.RuleRequest) (*pricingapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, rc, id, req))
}

func (m *mockRuleService) ActivateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*pricingapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, rc, id))
}

func (m *mockRuleService) DeactivateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*pricingapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, rc, id))
}

func (m *mockRuleService) DeleteRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) error {
	return m.Called(ctx, rc, id).Error(0)
}

func (m *mockRuleService) GetRule(ctx context.Context, id uuid.UUID) (*pricingapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, id))
}

func (m *mockRuleService) RuleAudits(ctx context.Context, ruleID uuid.UUID) ([]pricingapp.RuleAuditResponse, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingapp.RuleAuditResponse), args.Error(1)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) order(args mock.Arguments) (*tradeapp.SalesOrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.SalesOrderResponse), args.Error(1)
}

func (m *mockOrderService) Create(ctx context.Context, rc shared.RequestContext, req tradeapp.SalesOrderRequest) (*tradeapp.SalesOrderResponse, error) {
	return m.order(m.Called(ctx, rc, req))
}

func (m *mockOrderService) Update(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req tradeapp.SalesOrderRequest) (*tradeapp.SalesOrderResponse, error) {
	return m.order(m.Called(ctx, rc, id, req))
}

func (m *mockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*tradeapp.SalesOrderResponse, error) {
	return m.order(m.Called(ctx, id))
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
