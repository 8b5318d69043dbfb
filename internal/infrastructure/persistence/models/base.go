package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/shared"
)

// TenantAggregateModel holds the persistence fields shared by company-scoped aggregates
type TenantAggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

// FromDomainRoot copies the aggregate root fields
func (m *TenantAggregateModel) FromDomainRoot(r shared.TenantAggregateRoot) {
	m.ID = r.ID
	m.TenantID = r.TenantID
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
	m.Version = r.Version
}

// ToDomainRoot rebuilds the aggregate root fields
func (m *TenantAggregateModel) ToDomainRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		TenantID: m.TenantID,
	}
}

// nullableID maps uuid.Nil to NULL
func nullableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func idOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// All lists every model in migration order
func All() []any {
	return []any{
		&LineModel{},
		&GroupModel{},
		&ArticleModel{},
		&PriceListModel{},
		&ArticlePriceModel{},
		&PricingRuleModel{},
		&PriceHistoryModel{},
		&RuleAuditModel{},
		&SupplierAuthorizationModel{},
		&SalesOrderModel{},
		&SalesOrderLineModel{},
		&OrderSequenceModel{},
	}
}
