package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
)

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Article, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*catalog.Article), args.Error(1)
}

type MockPriceListRepository struct {
	mock.Mock
}

func (m *MockPriceListRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PriceList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PriceList), args.Error(1)
}

func (m *MockPriceListRepository) FindCurrent(ctx context.Context, filter pricing.CurrentListFilter) ([]*pricing.PriceList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.PriceList), args.Error(1)
}

func (m *MockPriceListRepository) Save(ctx context.Context, list *pricing.PriceList) error {
	return m.Called(ctx, list).Error(0)
}

type MockArticlePriceRepository struct {
	mock.Mock
}

func (m *MockArticlePriceRepository) FindByListAndArticle(ctx context.Context, listID, articleID uuid.UUID) (*pricing.ArticlePrice, error) {
	args := m.Called(ctx, listID, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ArticlePrice), args.Error(1)
}

func (m *MockArticlePriceRepository) Save(ctx context.Context, p *pricing.ArticlePrice) error {
	return m.Called(ctx, p).Error(0)
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingRule), args.Error(1)
}

func (m *MockRuleRepository) FindApplicable(ctx context.Context, listID uuid.UUID, on time.Time) ([]*pricing.PricingRule, error) {
	args := m.Called(ctx, listID, on)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.PricingRule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, r *pricing.PricingRule) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SavePriceHistory(ctx context.Context, h *pricing.PriceHistory) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockAuditRepository) SaveRuleAudit(ctx context.Context, a *pricing.RuleAudit) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAuditRepository) ListPriceHistory(ctx context.Context, listID, articleID uuid.UUID) ([]*pricing.PriceHistory, error) {
	args := m.Called(ctx, listID, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.PriceHistory), args.Error(1)
}

func (m *MockAuditRepository) ListRuleAudits(ctx context.Context, ruleID uuid.UUID) ([]*pricing.RuleAudit, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.RuleAudit), args.Error(1)
}

type MockAuthorizationRepository struct {
	mock.Mock
}

func (m *MockAuthorizationRepository) HasActive(ctx context.Context, article *catalog.Article, on time.Time) (bool, error) {
	args := m.Called(ctx, article, on)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizationRepository) Save(ctx context.Context, a *pricing.SupplierAuthorization) error {
	return m.Called(ctx, a).Error(0)
}

type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordCalculation(ctx context.Context, channel, outcome string) {
	m.Called(ctx, channel, outcome)
}

func (m *MockMetricsRecorder) RecordFloorClamp(ctx context.Context, channel string) {
	m.Called(ctx, channel)
}

func (m *MockMetricsRecorder) RecordBelowCost(ctx context.Context, channel string) {
	m.Called(ctx, channel)
}

// passThroughTx runs the callback directly and counts transactions
type passThroughTx struct {
	calls int
}

func (p *passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
