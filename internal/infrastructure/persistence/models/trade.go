package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
	"github.com/trading-system/backend/internal/domain/trade"
)

// SalesOrderModel is the persistence model for the SalesOrder aggregate root
type SalesOrderModel struct {
	TenantAggregateModel
	OrderNumber   int64                 `gorm:"not null;index"`
	OrderDate     time.Time             `gorm:"type:date;not null"`
	BranchID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	SellerID      *uuid.UUID            `gorm:"type:uuid"`
	Channel       pricing.Channel       `gorm:"type:varchar(20);not null"`
	PriceListID   uuid.UUID             `gorm:"type:uuid;not null"`
	Currency      string                `gorm:"type:varchar(3);not null"`
	Subtotal      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status        trade.OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Lines         []SalesOrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts to a trade.SalesOrder
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	o := &trade.SalesOrder{
		TenantAggregateRoot: m.ToDomainRoot(),
		OrderNumber:         m.OrderNumber,
		OrderDate:           m.OrderDate,
		BranchID:            m.BranchID,
		CustomerID:          m.CustomerID,
		SellerID:            idOrNil(m.SellerID),
		Channel:             m.Channel,
		PriceListID:         m.PriceListID,
		Currency:            valueobject.Currency(m.Currency),
		Subtotal:            m.Subtotal,
		DiscountTotal:       m.DiscountTotal,
		Total:               m.Total,
		Status:              m.Status,
		Lines:               make([]trade.SalesOrderLine, len(m.Lines)),
	}
	for i := range m.Lines {
		o.Lines[i] = m.Lines[i].ToDomain()
	}
	return o
}

// SalesOrderModelFromDomain builds a model (with lines) from a trade.SalesOrder
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		OrderNumber:   o.OrderNumber,
		OrderDate:     o.OrderDate,
		BranchID:      o.BranchID,
		CustomerID:    o.CustomerID,
		SellerID:      nullableID(o.SellerID),
		Channel:       o.Channel,
		PriceListID:   o.PriceListID,
		Currency:      string(o.Currency),
		Subtotal:      o.Subtotal,
		DiscountTotal: o.DiscountTotal,
		Total:         o.Total,
		Status:        o.Status,
		Lines:         make([]SalesOrderLineModel, len(o.Lines)),
	}
	m.FromDomainRoot(o.TenantAggregateRoot)
	for i := range o.Lines {
		m.Lines[i] = SalesOrderLineModelFromDomain(o.Lines[i])
	}
	return m
}

// SalesOrderLineModel is the persistence model for priced order lines
type SalesOrderLineModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ArticleID    uuid.UUID       `gorm:"type:uuid;not null"`
	ArticleCode  string          `gorm:"type:varchar(10);not null"`
	Description  string          `gorm:"type:varchar(200)"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AppliedRules []string        `gorm:"serializer:json;type:text"`
	BelowCost    bool            `gorm:"not null;default:false"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderLineModel) TableName() string {
	return "sales_order_lines"
}

// ToDomain converts to a trade.SalesOrderLine
func (m *SalesOrderLineModel) ToDomain() trade.SalesOrderLine {
	return trade.SalesOrderLine{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ArticleID:    m.ArticleID,
		ArticleCode:  m.ArticleCode,
		Description:  m.Description,
		Quantity:     m.Quantity,
		BasePrice:    m.BasePrice,
		UnitPrice:    m.UnitPrice,
		Discount:     m.Discount,
		AppliedRules: m.AppliedRules,
		BelowCost:    m.BelowCost,
		LineTotal:    m.LineTotal,
		CreatedAt:    m.CreatedAt,
	}
}

// SalesOrderLineModelFromDomain builds a model from a trade.SalesOrderLine
func SalesOrderLineModelFromDomain(l trade.SalesOrderLine) SalesOrderLineModel {
	return SalesOrderLineModel{
		ID:           l.ID,
		OrderID:      l.OrderID,
		ArticleID:    l.ArticleID,
		ArticleCode:  l.ArticleCode,
		Description:  l.Description,
		Quantity:     l.Quantity,
		BasePrice:    l.BasePrice,
		UnitPrice:    l.UnitPrice,
		Discount:     l.Discount,
		AppliedRules: l.AppliedRules,
		BelowCost:    l.BelowCost,
		LineTotal:    l.LineTotal,
		CreatedAt:    l.CreatedAt,
	}
}

// OrderSequenceModel holds the last issued order number per company
type OrderSequenceModel struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderSequenceModel) TableName() string {
	return "sales_order_sequences"
}
