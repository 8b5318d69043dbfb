package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements pricing.AuditRepository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// SavePriceHistory appends a price change
func (r *GormAuditRepository) SavePriceHistory(ctx context.Context, h *pricing.PriceHistory) error {
	if err := conn(ctx, r.db).Create(models.PriceHistoryModelFromDomain(h)).Error; err != nil {
		return fmt.Errorf("save price history: %w", err)
	}
	return nil
}

// SaveRuleAudit appends a rule change
func (r *GormAuditRepository) SaveRuleAudit(ctx context.Context, a *pricing.RuleAudit) error {
	if err := conn(ctx, r.db).Create(models.RuleAuditModelFromDomain(a)).Error; err != nil {
		return fmt.Errorf("save rule audit: %w", err)
	}
	return nil
}

// ListPriceHistory returns price changes for (list, article), newest first
func (r *GormAuditRepository) ListPriceHistory(ctx context.Context, priceListID, articleID uuid.UUID) ([]*pricing.PriceHistory, error) {
	var rows []models.PriceHistoryModel
	err := conn(ctx, r.db).
		Where("price_list_id = ? AND article_id = ?", priceListID, articleID).
		Order("changed_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	out := make([]*pricing.PriceHistory, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// ListRuleAudits returns audit records of a rule, newest first
func (r *GormAuditRepository) ListRuleAudits(ctx context.Context, ruleID uuid.UUID) ([]*pricing.RuleAudit, error) {
	var rows []models.RuleAuditModel
	if err := conn(ctx, r.db).Where("rule_id = ?", ruleID).Order("changed_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list rule audits: %w", err)
	}
	out := make([]*pricing.RuleAudit, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// GormAuthorizationRepository implements pricing.AuthorizationRepository using GORM
type GormAuthorizationRepository struct {
	db *gorm.DB
}

// NewGormAuthorizationRepository creates a new GormAuthorizationRepository
func NewGormAuthorizationRepository(db *gorm.DB) *GormAuthorizationRepository {
	return &GormAuthorizationRepository{db: db}
}

// HasActive reports whether an active authorization covers the article,
// its group or its line on the date
func (r *GormAuthorizationRepository) HasActive(ctx context.Context, article *catalog.Article, on time.Time) (bool, error) {
	day := pricing.Date(on)
	var count int64
	err := conn(ctx, r.db).Model(&models.SupplierAuthorizationModel{}).
		Where("tenant_id = ? AND status = ?", article.TenantID, pricing.StatusActive).
		Where("valid_from <= ? AND valid_to >= ?", day, day).
		Where("article_id = ? OR group_id = ? OR line_id = ?", article.ID, article.GroupID, article.LineID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check supplier authorization: %w", err)
	}
	return count > 0, nil
}

// Save creates or updates an authorization
func (r *GormAuthorizationRepository) Save(ctx context.Context, a *pricing.SupplierAuthorization) error {
	if err := conn(ctx, r.db).Save(models.SupplierAuthorizationModelFromDomain(a)).Error; err != nil {
		return fmt.Errorf("save supplier authorization: %w", err)
	}
	return nil
}
