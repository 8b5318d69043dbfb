package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPriceListRepository implements pricing.PriceListRepository using GORM
type GormPriceListRepository struct {
	db *gorm.DB
}

// NewGormPriceListRepository creates a new GormPriceListRepository
func NewGormPriceListRepository(db *gorm.DB) *GormPriceListRepository {
	return &GormPriceListRepository{db: db}
}

// FindByID finds a price list by its ID
func (r *GormPriceListRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PriceList, error) {
	var m models.PriceListModel
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrPriceListNotFound
		}
		return nil, fmt.Errorf("find price list: %w", err)
	}
	return m.ToDomain(), nil
}

// FindCurrent returns active lists in force on filter.On, ordered by code
func (r *GormPriceListRepository) FindCurrent(ctx context.Context, filter pricing.CurrentListFilter) ([]*pricing.PriceList, error) {
	on := pricing.Date(filter.On)
	q := conn(ctx, r.db).
		Where("tenant_id = ? AND status = ?", filter.TenantID, pricing.StatusActive).
		Where("valid_from <= ? AND valid_to >= ?", on, on)
	if filter.BranchID != nil {
		q = q.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Channel != "" {
		q = q.Where("channel = ?", filter.Channel)
	}

	var rows []models.PriceListModel
	if err := q.Order("code ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find current price lists: %w", err)
	}
	out := make([]*pricing.PriceList, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a price list
func (r *GormPriceListRepository) Save(ctx context.Context, list *pricing.PriceList) error {
	if err := conn(ctx, r.db).Save(models.PriceListModelFromDomain(list)).Error; err != nil {
		return fmt.Errorf("save price list: %w", err)
	}
	return nil
}

// GormArticlePriceRepository implements pricing.ArticlePriceRepository using GORM
type GormArticlePriceRepository struct {
	db *gorm.DB
}

// NewGormArticlePriceRepository creates a new GormArticlePriceRepository
func NewGormArticlePriceRepository(db *gorm.DB) *GormArticlePriceRepository {
	return &GormArticlePriceRepository{db: db}
}

// FindByListAndArticle returns the entry for (list, article)
func (r *GormArticlePriceRepository) FindByListAndArticle(ctx context.Context, priceListID, articleID uuid.UUID) (*pricing.ArticlePrice, error) {
	var m models.ArticlePriceModel
	err := conn(ctx, r.db).
		Where("price_list_id = ? AND article_id = ?", priceListID, articleID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrArticlePriceNotFound
		}
		return nil, fmt.Errorf("find article price: %w", err)
	}
	return m.ToDomain(), nil
}

// Save creates or updates a price entry
func (r *GormArticlePriceRepository) Save(ctx context.Context, p *pricing.ArticlePrice) error {
	if err := conn(ctx, r.db).Save(models.ArticlePriceModelFromDomain(p)).Error; err != nil {
		return fmt.Errorf("save article price: %w", err)
	}
	return nil
}
