package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// SalesOrderLine is a priced line of a sales order
type SalesOrderLine struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ArticleID    uuid.UUID
	ArticleCode  string
	Description  string
	Quantity     decimal.Decimal
	BasePrice    decimal.Decimal
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal // per unit, may be negative
	AppliedRules []string
	BelowCost    bool
	LineTotal    decimal.Decimal // UnitPrice * Quantity
	CreatedAt    time.Time
}

// NewSalesOrderLine builds a line from a pricing result
func NewSalesOrderLine(orderID uuid.UUID, articleCode, description string, result *pricing.PricingResult) (*SalesOrderLine, error) {
	if result == nil || result.ArticleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article ID cannot be empty")
	}
	if !result.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	rules := make([]string, len(result.AppliedRules))
	copy(rules, result.AppliedRules)

	return &SalesOrderLine{
		ID:           uuid.New(),
		OrderID:      orderID,
		ArticleID:    result.ArticleID,
		ArticleCode:  articleCode,
		Description:  description,
		Quantity:     result.Quantity,
		BasePrice:    result.BasePrice,
		UnitPrice:    result.FinalPrice,
		Discount:     result.DiscountTotal,
		AppliedRules: rules,
		BelowCost:    result.BelowCost,
		LineTotal:    valueobject.RoundCents(result.LineTotal()),
		CreatedAt:    time.Now(),
	}, nil
}

// SalesOrder is a customer quotation priced line by line through the pricing engine
type SalesOrder struct {
	shared.TenantAggregateRoot
	OrderNumber   int64
	OrderDate     time.Time
	BranchID      uuid.UUID
	CustomerID    uuid.UUID
	SellerID      uuid.UUID
	Channel       pricing.Channel
	PriceListID   uuid.UUID
	Currency      valueobject.Currency
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	Status        OrderStatus
	Lines         []SalesOrderLine
}

// NewSalesOrder creates a pending order without lines
func NewSalesOrder(tenantID, branchID, customerID, sellerID uuid.UUID, channel pricing.Channel, priceList *pricing.PriceList) (*SalesOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if priceList == nil {
		return nil, shared.NewDomainError("INVALID_PRICE_LIST", "Price list is required")
	}

	return &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderDate:           pricing.Date(time.Now()),
		BranchID:            branchID,
		CustomerID:          customerID,
		SellerID:            sellerID,
		Channel:             channel,
		PriceListID:         priceList.ID,
		Currency:            priceList.Currency,
		Subtotal:            decimal.Zero,
		DiscountTotal:       decimal.Zero,
		Total:               decimal.Zero,
		Status:              OrderStatusPending,
		Lines:               make([]SalesOrderLine, 0),
	}, nil
}

// IsPending returns true if the order can still be edited
func (o *SalesOrder) IsPending() bool {
	return o.Status == OrderStatusPending
}

// ReplaceLines swaps all lines and recalculates totals. Only pending orders can change.
func (o *SalesOrder) ReplaceLines(lines []SalesOrderLine) error {
	if !o.IsPending() {
		return shared.NewDomainError("INVALID_STATE", "Only pending orders can be modified")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Order must have at least one line")
	}
	for i := range lines {
		lines[i].OrderID = o.ID
	}
	o.Lines = lines
	o.recalculate()
	o.Touch()
	return nil
}

// Reassign changes customer, seller, channel and price list of a pending order
func (o *SalesOrder) Reassign(customerID, sellerID uuid.UUID, channel pricing.Channel, priceList *pricing.PriceList) error {
	if !o.IsPending() {
		return shared.NewDomainError("INVALID_STATE", "Only pending orders can be modified")
	}
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	o.CustomerID = customerID
	o.SellerID = sellerID
	o.Channel = channel
	o.PriceListID = priceList.ID
	o.Currency = priceList.Currency
	return nil
}

// RequiresApproval is true when any line is sold below cost
func (o *SalesOrder) RequiresApproval() bool {
	for _, l := range o.Lines {
		if l.BelowCost {
			return true
		}
	}
	return false
}

// recalculate derives subtotal at base price, discount and total from the lines
func (o *SalesOrder) recalculate() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	total := decimal.Zero
	for _, l := range o.Lines {
		subtotal = subtotal.Add(l.BasePrice.Mul(l.Quantity))
		discount = discount.Add(l.Discount.Mul(l.Quantity))
		total = total.Add(l.LineTotal)
	}
	o.Subtotal = valueobject.RoundCents(subtotal)
	o.DiscountTotal = valueobject.RoundCents(discount)
	o.Total = valueobject.RoundCents(total)
}
