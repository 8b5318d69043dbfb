package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
)

func TestGormPriceListRepository_FindCurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPriceListRepository(db)
	ctx := context.Background()

	tenantID, branchID, otherBranch := uuid.New(), uuid.New(), uuid.New()
	b2cB := newList(t, tenantID, branchID, "B", pricing.ChannelB2C, "2025-01-01", "2025-12-31")
	b2cA := newList(t, tenantID, branchID, "A", pricing.ChannelB2C, "2025-06-01", "2025-06-30")
	b2b := newList(t, tenantID, branchID, "C", pricing.ChannelB2B, "2025-01-01", "2025-12-31")
	expired := newList(t, tenantID, branchID, "D", pricing.ChannelB2C, "2024-01-01", "2024-12-31")
	elsewhere := newList(t, tenantID, otherBranch, "E", pricing.ChannelB2C, "2025-01-01", "2025-12-31")
	inactive := newList(t, tenantID, branchID, "F", pricing.ChannelB2C, "2025-01-01", "2025-12-31")
	inactive.Status = pricing.StatusInactive

	for _, l := range []*pricing.PriceList{b2cB, b2cA, b2b, expired, elsewhere, inactive} {
		require.NoError(t, repo.Save(ctx, l))
	}

	t.Run("filters by branch, channel, status and date, ordered by code", func(t *testing.T) {
		lists, err := repo.FindCurrent(ctx, pricing.CurrentListFilter{
			TenantID: tenantID,
			BranchID: &branchID,
			Channel:  pricing.ChannelB2C,
			On:       time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Len(t, lists, 2)
		assert.Equal(t, "A", lists[0].Code)
		assert.Equal(t, "B", lists[1].Code)
	})

	t.Run("validity bounds are inclusive", func(t *testing.T) {
		lists, err := repo.FindCurrent(ctx, pricing.CurrentListFilter{
			TenantID: tenantID,
			BranchID: &branchID,
			Channel:  pricing.ChannelB2C,
			On:       day("2025-06-30"),
		})
		require.NoError(t, err)
		assert.Len(t, lists, 2)
	})

	t.Run("without branch returns every branch", func(t *testing.T) {
		lists, err := repo.FindCurrent(ctx, pricing.CurrentListFilter{
			TenantID: tenantID,
			Channel:  pricing.ChannelB2C,
			On:       day("2025-03-01"),
		})
		require.NoError(t, err)
		require.Len(t, lists, 2)
		assert.Equal(t, "B", lists[0].Code)
		assert.Equal(t, "E", lists[1].Code)
	})

	t.Run("FindByID round trips", func(t *testing.T) {
		got, err := repo.FindByID(ctx, b2b.ID)
		require.NoError(t, err)
		assert.Equal(t, pricing.ChannelB2B, got.Channel)
		assert.True(t, got.ValidFrom.Equal(day("2025-01-01")))
		assert.True(t, got.ValidTo.Equal(day("2025-12-31")))
	})

	t.Run("FindByID unknown", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, pricing.ErrPriceListNotFound)
	})
}

func TestGormArticlePriceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormArticlePriceRepository(db)
	ctx := context.Background()

	tenantID, listID, articleID := uuid.New(), uuid.New(), uuid.New()

	_, err := repo.FindByListAndArticle(ctx, listID, articleID)
	assert.ErrorIs(t, err, pricing.ErrArticlePriceNotFound)

	entry, err := pricing.NewArticlePrice(tenantID, listID, articleID, decimal.NewFromInt(10), decimal.NewFromInt(8))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, entry))

	_, err = entry.Reprice(decimal.RequireFromString("12.5"), decimal.NewFromInt(9))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, entry))

	got, err := repo.FindByListAndArticle(ctx, listID, articleID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.True(t, got.BasePrice.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, got.MinimumPrice.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, 2, got.Version)
}

func newRule(t *testing.T, tenantID, listID uuid.UUID, code string, priority int, from, to string) *pricing.PricingRule {
	t.Helper()
	rule, err := pricing.NewPricingRule(tenantID, pricing.RuleSpec{
		PriceListID:  listID,
		Code:         code,
		Kind:         pricing.RuleKindChannel,
		Priority:     priority,
		Channel:      pricing.ChannelB2C,
		DiscountType: pricing.DiscountTypePercentage,
		Direction:    pricing.DirectionDiscount,
		Value:        decimal.NewFromInt(5),
		ValidFrom:    day(from),
		ValidTo:      day(to),
		Description:  "Rule " + code,
	})
	require.NoError(t, err)
	return rule
}

func TestGormRuleRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRuleRepository(db)
	ctx := context.Background()

	tenantID, listID := uuid.New(), uuid.New()
	low := newRule(t, tenantID, listID, "R2", 2, "2025-01-01", "2025-12-31")
	high := newRule(t, tenantID, listID, "R1", 1, "2025-01-01", "2025-12-31")
	future := newRule(t, tenantID, listID, "R3", 1, "2026-01-01", "2026-12-31")
	off := newRule(t, tenantID, listID, "R4", 1, "2025-01-01", "2025-12-31")
	require.NoError(t, off.Deactivate())
	otherList := newRule(t, tenantID, uuid.New(), "R5", 1, "2025-01-01", "2025-12-31")

	for _, r := range []*pricing.PricingRule{low, high, future, off, otherList} {
		require.NoError(t, repo.Save(ctx, r))
	}

	t.Run("FindApplicable returns active rules in force ordered by priority", func(t *testing.T) {
		rules, err := repo.FindApplicable(ctx, listID, day("2025-05-05"))
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "R1", rules[0].Code)
		assert.Equal(t, "R2", rules[1].Code)
		assert.True(t, rules[0].Value.Equal(decimal.NewFromInt(5)))
	})

	t.Run("FindByID keeps optional fields", func(t *testing.T) {
		got, err := repo.FindByID(ctx, high.ID)
		require.NoError(t, err)
		assert.Nil(t, got.LineID)
		assert.Nil(t, got.MinQuantity)
		assert.Equal(t, pricing.RuleKindChannel, got.Kind)
	})

	t.Run("Delete removes the rule", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, low.ID))
		_, err := repo.FindByID(ctx, low.ID)
		assert.ErrorIs(t, err, pricing.ErrRuleNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, low.ID), pricing.ErrRuleNotFound)
	})
}

func TestGormAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()

	tenantID, listID, articleID, userID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	entry, err := pricing.NewArticlePrice(tenantID, listID, articleID, decimal.NewFromInt(10), decimal.NewFromInt(8))
	require.NoError(t, err)

	first := pricing.NewPriceHistory(shared.NewRequestContext(tenantID, uuid.Nil, ""), entry, decimal.Zero, true)
	first.ChangedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.SavePriceHistory(ctx, first))

	old, err := entry.Reprice(decimal.NewFromInt(11), decimal.NewFromInt(8))
	require.NoError(t, err)
	second := pricing.NewPriceHistory(shared.NewRequestContext(tenantID, userID, "Supplier increase"), entry, old, false)
	require.NoError(t, repo.SavePriceHistory(ctx, second))

	t.Run("price history newest first", func(t *testing.T) {
		history, err := repo.ListPriceHistory(ctx, listID, articleID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, second.ID, history[0].ID)
		assert.Equal(t, userID, history[0].UserID)
		assert.Equal(t, "Supplier increase", history[0].Reason)
		assert.True(t, history[0].OldPrice.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, uuid.Nil, history[1].UserID)
	})

	t.Run("rule audits keep snapshots", func(t *testing.T) {
		rule := newRule(t, tenantID, listID, "R1", 1, "2025-01-01", "2025-12-31")
		snap := rule.Snapshot()
		audit, err := pricing.NewRuleAudit(shared.NewRequestContext(tenantID, userID, "New promo"), pricing.AuditActionCreate, rule.ID, nil, &snap)
		require.NoError(t, err)
		require.NoError(t, repo.SaveRuleAudit(ctx, audit))

		audits, err := repo.ListRuleAudits(ctx, rule.ID)
		require.NoError(t, err)
		require.Len(t, audits, 1)
		assert.Equal(t, pricing.AuditActionCreate, audits[0].Action)
		assert.Nil(t, audits[0].Before)
		assert.JSONEq(t, string(audit.After), string(audits[0].After))
	})
}

func TestGormAuthorizationRepository_HasActive(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	repo := NewGormAuthorizationRepository(db)
	ctx := context.Background()

	on := day("2025-03-10")

	ok, err := repo.HasActive(ctx, f.article, on)
	require.NoError(t, err)
	assert.False(t, ok)

	auth, err := pricing.NewSupplierAuthorization(f.tenantID, uuid.New(), decimal.NewFromInt(15), day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	auth.GroupID = &f.group.ID
	require.NoError(t, repo.Save(ctx, auth))

	ok, err = repo.HasActive(ctx, f.article, on)
	require.NoError(t, err)
	assert.True(t, ok, "group authorization covers the article")

	ok, err = repo.HasActive(ctx, f.article, day("2025-04-01"))
	require.NoError(t, err)
	assert.False(t, ok, "outside the validity window")

	auth.Status = pricing.StatusInactive
	require.NoError(t, repo.Save(ctx, auth))
	ok, err = repo.HasActive(ctx, f.article, on)
	require.NoError(t, err)
	assert.False(t, ok, "inactive authorization")
}
