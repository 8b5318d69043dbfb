package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
)

// PriceListModel is the persistence model for price lists
type PriceListModel struct {
	TenantAggregateModel
	BranchID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Code      string           `gorm:"type:varchar(10);not null"`
	Name      string           `gorm:"type:varchar(100);not null"`
	Type      pricing.ListType `gorm:"type:varchar(20);not null"`
	Channel   pricing.Channel  `gorm:"type:varchar(20);not null;index"`
	Currency  string           `gorm:"type:varchar(3);not null"`
	ValidFrom time.Time        `gorm:"type:date;not null"`
	ValidTo   time.Time        `gorm:"type:date;not null"`
	Status    pricing.Status   `gorm:"type:varchar(20);not null;index"`
	UpdatedBy *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PriceListModel) TableName() string {
	return "price_lists"
}

// ToDomain converts to a pricing.PriceList
func (m *PriceListModel) ToDomain() *pricing.PriceList {
	return &pricing.PriceList{
		TenantAggregateRoot: m.ToDomainRoot(),
		BranchID:            m.BranchID,
		Code:                m.Code,
		Name:                m.Name,
		Type:                m.Type,
		Channel:             m.Channel,
		Currency:            valueobject.Currency(m.Currency),
		ValidFrom:           pricing.Date(m.ValidFrom),
		ValidTo:             pricing.Date(m.ValidTo),
		Status:              m.Status,
		UpdatedBy:           idOrNil(m.UpdatedBy),
	}
}

// PriceListModelFromDomain builds a model from a pricing.PriceList
func PriceListModelFromDomain(l *pricing.PriceList) *PriceListModel {
	m := &PriceListModel{
		BranchID:  l.BranchID,
		Code:      l.Code,
		Name:      l.Name,
		Type:      l.Type,
		Channel:   l.Channel,
		Currency:  string(l.Currency),
		ValidFrom: l.ValidFrom,
		ValidTo:   l.ValidTo,
		Status:    l.Status,
		UpdatedBy: nullableID(l.UpdatedBy),
	}
	m.FromDomainRoot(l.TenantAggregateRoot)
	return m
}

// ArticlePriceModel is the persistence model for (list, article) price entries
type ArticlePriceModel struct {
	TenantAggregateModel
	PriceListID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_article_price_list_article,priority:1"`
	ArticleID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_article_price_list_article,priority:2"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinimumPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status       pricing.Status  `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ArticlePriceModel) TableName() string {
	return "article_prices"
}

// ToDomain converts to a pricing.ArticlePrice
func (m *ArticlePriceModel) ToDomain() *pricing.ArticlePrice {
	return &pricing.ArticlePrice{
		TenantAggregateRoot: m.ToDomainRoot(),
		PriceListID:         m.PriceListID,
		ArticleID:           m.ArticleID,
		BasePrice:           m.BasePrice,
		MinimumPrice:        m.MinimumPrice,
		Status:              m.Status,
	}
}

// ArticlePriceModelFromDomain builds a model from a pricing.ArticlePrice
func ArticlePriceModelFromDomain(p *pricing.ArticlePrice) *ArticlePriceModel {
	m := &ArticlePriceModel{
		PriceListID:  p.PriceListID,
		ArticleID:    p.ArticleID,
		BasePrice:    p.BasePrice,
		MinimumPrice: p.MinimumPrice,
		Status:       p.Status,
	}
	m.FromDomainRoot(p.TenantAggregateRoot)
	return m
}

// PricingRuleModel is the persistence model for pricing rules
type PricingRuleModel struct {
	TenantAggregateModel
	PriceListID  uuid.UUID            `gorm:"type:uuid;not null;index:idx_rule_list_status,priority:1"`
	Code         string               `gorm:"type:varchar(20);not null"`
	Kind         pricing.RuleKind     `gorm:"type:varchar(20);not null"`
	Priority     int                  `gorm:"not null;default:1"`
	Channel      pricing.Channel      `gorm:"type:varchar(20)"`
	LineID       *uuid.UUID           `gorm:"type:uuid"`
	GroupID      *uuid.UUID           `gorm:"type:uuid"`
	ArticleID    *uuid.UUID           `gorm:"type:uuid"`
	MinQuantity  *decimal.Decimal     `gorm:"type:decimal(18,4)"`
	MinAmount    *decimal.Decimal     `gorm:"type:decimal(18,4)"`
	DiscountType pricing.DiscountType `gorm:"type:varchar(20);not null"`
	Direction    pricing.Direction    `gorm:"type:varchar(20);not null;default:'discount'"`
	Value        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ValidFrom    time.Time            `gorm:"type:date;not null"`
	ValidTo      time.Time            `gorm:"type:date;not null"`
	Description  string               `gorm:"type:varchar(200);not null"`
	Status       pricing.Status       `gorm:"type:varchar(20);not null;index:idx_rule_list_status,priority:2"`
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts to a pricing.PricingRule
func (m *PricingRuleModel) ToDomain() *pricing.PricingRule {
	return &pricing.PricingRule{
		TenantAggregateRoot: m.ToDomainRoot(),
		PriceListID:         m.PriceListID,
		Code:                m.Code,
		Kind:                m.Kind,
		Priority:            m.Priority,
		Channel:             m.Channel,
		LineID:              m.LineID,
		GroupID:             m.GroupID,
		ArticleID:           m.ArticleID,
		MinQuantity:         m.MinQuantity,
		MinAmount:           m.MinAmount,
		DiscountType:        m.DiscountType,
		Direction:           m.Direction,
		Value:               m.Value,
		ValidFrom:           pricing.Date(m.ValidFrom),
		ValidTo:             pricing.Date(m.ValidTo),
		Description:         m.Description,
		Status:              m.Status,
	}
}

// PricingRuleModelFromDomain builds a model from a pricing.PricingRule
func PricingRuleModelFromDomain(r *pricing.PricingRule) *PricingRuleModel {
	m := &PricingRuleModel{
		PriceListID:  r.PriceListID,
		Code:         r.Code,
		Kind:         r.Kind,
		Priority:     r.Priority,
		Channel:      r.Channel,
		LineID:       r.LineID,
		GroupID:      r.GroupID,
		ArticleID:    r.ArticleID,
		MinQuantity:  r.MinQuantity,
		MinAmount:    r.MinAmount,
		DiscountType: r.DiscountType,
		Direction:    r.Direction,
		Value:        r.Value,
		ValidFrom:    r.ValidFrom,
		ValidTo:      r.ValidTo,
		Description:  r.Description,
		Status:       r.Status,
	}
	m.FromDomainRoot(r.TenantAggregateRoot)
	return m
}

// PriceHistoryModel stores one base price change
type PriceHistoryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PriceListID uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_history_entry,priority:1"`
	ArticleID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_history_entry,priority:2"`
	OldPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ChangedAt   time.Time       `gorm:"not null"`
	UserID      *uuid.UUID      `gorm:"type:uuid"`
	Reason      string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (PriceHistoryModel) TableName() string {
	return "price_history"
}

// ToDomain converts to a pricing.PriceHistory
func (m *PriceHistoryModel) ToDomain() *pricing.PriceHistory {
	return &pricing.PriceHistory{
		ID:          m.ID,
		TenantID:    m.TenantID,
		ArticleID:   m.ArticleID,
		PriceListID: m.PriceListID,
		OldPrice:    m.OldPrice,
		NewPrice:    m.NewPrice,
		ChangedAt:   m.ChangedAt,
		UserID:      idOrNil(m.UserID),
		Reason:      m.Reason,
	}
}

// PriceHistoryModelFromDomain builds a model from a pricing.PriceHistory
func PriceHistoryModelFromDomain(h *pricing.PriceHistory) *PriceHistoryModel {
	return &PriceHistoryModel{
		ID:          h.ID,
		TenantID:    h.TenantID,
		PriceListID: h.PriceListID,
		ArticleID:   h.ArticleID,
		OldPrice:    h.OldPrice,
		NewPrice:    h.NewPrice,
		ChangedAt:   h.ChangedAt,
		UserID:      nullableID(h.UserID),
		Reason:      h.Reason,
	}
}

// RuleAuditModel stores one rule change with before/after snapshots
type RuleAuditModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	RuleID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Action    pricing.AuditAction `gorm:"type:varchar(10);not null"`
	Before    []byte              `gorm:"type:text"`
	After     []byte              `gorm:"type:text"`
	ChangedAt time.Time           `gorm:"not null"`
	UserID    *uuid.UUID          `gorm:"type:uuid"`
	Reason    string              `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (RuleAuditModel) TableName() string {
	return "pricing_rule_audits"
}

// ToDomain converts to a pricing.RuleAudit
func (m *RuleAuditModel) ToDomain() *pricing.RuleAudit {
	return &pricing.RuleAudit{
		ID:        m.ID,
		TenantID:  m.TenantID,
		RuleID:    m.RuleID,
		Action:    m.Action,
		Before:    rawOrNil(m.Before),
		After:     rawOrNil(m.After),
		ChangedAt: m.ChangedAt,
		UserID:    idOrNil(m.UserID),
		Reason:    m.Reason,
	}
}

// RuleAuditModelFromDomain builds a model from a pricing.RuleAudit
func RuleAuditModelFromDomain(a *pricing.RuleAudit) *RuleAuditModel {
	return &RuleAuditModel{
		ID:        a.ID,
		TenantID:  a.TenantID,
		RuleID:    a.RuleID,
		Action:    a.Action,
		Before:    a.Before,
		After:     a.After,
		ChangedAt: a.ChangedAt,
		UserID:    nullableID(a.UserID),
		Reason:    a.Reason,
	}
}

func rawOrNil(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}

// SupplierAuthorizationModel stores supplier discount authorizations
type SupplierAuthorizationModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null"`
	ArticleID    *uuid.UUID      `gorm:"type:uuid;index"`
	GroupID      *uuid.UUID      `gorm:"type:uuid;index"`
	LineID       *uuid.UUID      `gorm:"type:uuid;index"`
	Percent      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	ValidFrom    time.Time       `gorm:"type:date;not null"`
	ValidTo      time.Time       `gorm:"type:date;not null"`
	Status       pricing.Status  `gorm:"type:varchar(20);not null"`
	AuthorizedBy *uuid.UUID      `gorm:"type:uuid"`
	AuthorizedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierAuthorizationModel) TableName() string {
	return "supplier_authorizations"
}

// ToDomain converts to a pricing.SupplierAuthorization
func (m *SupplierAuthorizationModel) ToDomain() *pricing.SupplierAuthorization {
	return &pricing.SupplierAuthorization{
		ID:           m.ID,
		TenantID:     m.TenantID,
		SupplierID:   m.SupplierID,
		ArticleID:    m.ArticleID,
		GroupID:      m.GroupID,
		LineID:       m.LineID,
		Percent:      m.Percent,
		ValidFrom:    pricing.Date(m.ValidFrom),
		ValidTo:      pricing.Date(m.ValidTo),
		Status:       m.Status,
		AuthorizedBy: idOrNil(m.AuthorizedBy),
		AuthorizedAt: m.AuthorizedAt,
	}
}

// SupplierAuthorizationModelFromDomain builds a model from a pricing.SupplierAuthorization
func SupplierAuthorizationModelFromDomain(a *pricing.SupplierAuthorization) *SupplierAuthorizationModel {
	return &SupplierAuthorizationModel{
		ID:           a.ID,
		TenantID:     a.TenantID,
		SupplierID:   a.SupplierID,
		ArticleID:    a.ArticleID,
		GroupID:      a.GroupID,
		LineID:       a.LineID,
		Percent:      a.Percent,
		ValidFrom:    a.ValidFrom,
		ValidTo:      a.ValidTo,
		Status:       a.Status,
		AuthorizedBy: nullableID(a.AuthorizedBy),
		AuthorizedAt: a.AuthorizedAt,
	}
}
