package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountType tells whether a rule value is a percentage or a fixed amount
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// IsValid checks if the discount type is a known value
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixedAmount
}

// Direction tells whether a rule lowers or raises the price
type Direction string

const (
	DirectionDiscount  Direction = "discount"
	DirectionSurcharge Direction = "surcharge"
)

// IsValid checks if the direction is a known value
func (d Direction) IsValid() bool {
	return d == DirectionDiscount || d == DirectionSurcharge
}

// Adjustment computes how much a rule takes off the running price.
// A negative delta is a surcharge.
type Adjustment interface {
	Delta(running decimal.Decimal) decimal.Decimal
	adjustment()
}

// PercentageDiscount takes a percentage of the running price off
type PercentageDiscount struct{ Percent decimal.Decimal }

// FixedDiscount takes a fixed amount off
type FixedDiscount struct{ Amount decimal.Decimal }

// PercentageSurcharge adds a percentage of the running price
type PercentageSurcharge struct{ Percent decimal.Decimal }

// FixedSurcharge adds a fixed amount
type FixedSurcharge struct{ Amount decimal.Decimal }

func (a PercentageDiscount) Delta(running decimal.Decimal) decimal.Decimal {
	return running.Mul(a.Percent).Div(hundred)
}

func (a FixedDiscount) Delta(decimal.Decimal) decimal.Decimal {
	return a.Amount
}

func (a PercentageSurcharge) Delta(running decimal.Decimal) decimal.Decimal {
	return running.Mul(a.Percent).Div(hundred).Neg()
}

func (a FixedSurcharge) Delta(decimal.Decimal) decimal.Decimal {
	return a.Amount.Neg()
}

func (PercentageDiscount) adjustment()  {}
func (FixedDiscount) adjustment()       {}
func (PercentageSurcharge) adjustment() {}
func (FixedSurcharge) adjustment()      {}

// NewAdjustment builds the variant for a direction and discount type
func NewAdjustment(direction Direction, discountType DiscountType, value decimal.Decimal) (Adjustment, error) {
	switch {
	case direction == DirectionDiscount && discountType == DiscountTypePercentage:
		return PercentageDiscount{Percent: value}, nil
	case direction == DirectionDiscount && discountType == DiscountTypeFixedAmount:
		return FixedDiscount{Amount: value}, nil
	case direction == DirectionSurcharge && discountType == DiscountTypePercentage:
		return PercentageSurcharge{Percent: value}, nil
	case direction == DirectionSurcharge && discountType == DiscountTypeFixedAmount:
		return FixedSurcharge{Amount: value}, nil
	}
	return nil, invalidRule("Unsupported adjustment: " + string(direction) + "/" + string(discountType))
}
