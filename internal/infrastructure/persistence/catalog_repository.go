package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormArticleRepository implements catalog.ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// FindByID finds an article by its ID
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	var m models.ArticleModel
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads several articles at once. Missing IDs are absent from the map.
func (r *GormArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Article, error) {
	out := make(map[uuid.UUID]*catalog.Article, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.ArticleModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an article
func (r *GormArticleRepository) Save(ctx context.Context, a *catalog.Article) error {
	if err := conn(ctx, r.db).Save(models.ArticleModelFromDomain(a)).Error; err != nil {
		return fmt.Errorf("save article: %w", err)
	}
	return nil
}

// SaveLine upserts a product line
func (r *GormArticleRepository) SaveLine(ctx context.Context, tenantID uuid.UUID, l catalog.Line) error {
	m := models.LineModel{ID: l.ID, TenantID: tenantID, Code: l.Code, Name: l.Name, Status: l.Status}
	return conn(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// SaveGroup upserts a product group
func (r *GormArticleRepository) SaveGroup(ctx context.Context, tenantID uuid.UUID, g catalog.Group) error {
	m := models.GroupModel{ID: g.ID, TenantID: tenantID, Code: g.Code, Name: g.Name, LineID: g.LineID, Status: g.Status}
	return conn(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}
