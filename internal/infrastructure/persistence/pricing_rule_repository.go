package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRuleRepository implements pricing.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByID finds a rule by its ID
func (r *GormRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	var m models.PricingRuleModel
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrRuleNotFound
		}
		return nil, fmt.Errorf("find pricing rule: %w", err)
	}
	return m.ToDomain(), nil
}

// FindApplicable returns active rules of the list valid on the date.
// The engine applies the final ordering; the SQL order only keeps results stable.
func (r *GormRuleRepository) FindApplicable(ctx context.Context, priceListID uuid.UUID, on time.Time) ([]*pricing.PricingRule, error) {
	day := pricing.Date(on)
	var rows []models.PricingRuleModel
	err := conn(ctx, r.db).
		Where("price_list_id = ? AND status = ?", priceListID, pricing.StatusActive).
		Where("valid_from <= ? AND valid_to >= ?", day, day).
		Order("priority ASC").Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find applicable rules: %w", err)
	}
	out := make([]*pricing.PricingRule, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a rule
func (r *GormRuleRepository) Save(ctx context.Context, rule *pricing.PricingRule) error {
	if err := conn(ctx, r.db).Save(models.PricingRuleModelFromDomain(rule)).Error; err != nil {
		return fmt.Errorf("save pricing rule: %w", err)
	}
	return nil
}

// Delete removes a rule
func (r *GormRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&models.PricingRuleModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete pricing rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pricing.ErrRuleNotFound
	}
	return nil
}
