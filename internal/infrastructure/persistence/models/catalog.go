package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/catalog"
)

// LineModel is the persistence model for product lines
type LineModel struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_line_tenant_code,priority:1"`
	Code     string         `gorm:"type:varchar(10);not null;uniqueIndex:idx_line_tenant_code,priority:2"`
	Name     string         `gorm:"type:varchar(100);not null"`
	Status   catalog.Status `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (LineModel) TableName() string {
	return "article_lines"
}

// ToDomain converts to a catalog.Line
func (m *LineModel) ToDomain() catalog.Line {
	return catalog.Line{ID: m.ID, Code: m.Code, Name: m.Name, Status: m.Status}
}

// GroupModel is the persistence model for product groups
type GroupModel struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_group_tenant_code,priority:1"`
	Code     string         `gorm:"type:varchar(10);not null;uniqueIndex:idx_group_tenant_code,priority:2"`
	Name     string         `gorm:"type:varchar(100);not null"`
	LineID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status   catalog.Status `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (GroupModel) TableName() string {
	return "article_groups"
}

// ToDomain converts to a catalog.Group
func (m *GroupModel) ToDomain() catalog.Group {
	return catalog.Group{ID: m.ID, Code: m.Code, Name: m.Name, LineID: m.LineID, Status: m.Status}
}

// ArticleModel is the persistence model for the Article aggregate
type ArticleModel struct {
	TenantAggregateModel
	Code           string          `gorm:"type:varchar(10);not null;index"`
	Barcode        string          `gorm:"type:varchar(50);index"`
	Description    string          `gorm:"type:varchar(200);not null"`
	Unit           string          `gorm:"type:varchar(20)"`
	CurrentCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SuggestedPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GroupID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         catalog.Status  `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ArticleModel) TableName() string {
	return "articles"
}

// ToDomain converts to a catalog.Article
func (m *ArticleModel) ToDomain() *catalog.Article {
	return &catalog.Article{
		TenantAggregateRoot: m.ToDomainRoot(),
		Code:                m.Code,
		Barcode:             m.Barcode,
		Description:         m.Description,
		Unit:                m.Unit,
		CurrentCost:         m.CurrentCost,
		SuggestedPrice:      m.SuggestedPrice,
		GroupID:             m.GroupID,
		LineID:              m.LineID,
		Status:              m.Status,
	}
}

// ArticleModelFromDomain builds a model from a catalog.Article
func ArticleModelFromDomain(a *catalog.Article) *ArticleModel {
	m := &ArticleModel{
		Code:           a.Code,
		Barcode:        a.Barcode,
		Description:    a.Description,
		Unit:           a.Unit,
		CurrentCost:    a.CurrentCost,
		SuggestedPrice: a.SuggestedPrice,
		GroupID:        a.GroupID,
		LineID:         a.LineID,
		Status:         a.Status,
	}
	m.FromDomainRoot(a.TenantAggregateRoot)
	return m
}
