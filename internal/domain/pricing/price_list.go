package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
)

// Status is shared by price lists, price entries and rules
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Channel identifies a sales channel
type Channel string

const (
	ChannelB2B       Channel = "B2B"
	ChannelB2C       Channel = "B2C"
	ChannelECommerce Channel = "ECOMMERCE"
)

// ParseChannel normalizes a channel name. Unknown channels are rejected.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case ChannelB2B, ChannelB2C, ChannelECommerce:
		return c, nil
	case "E-COMMERCE":
		return ChannelECommerce, nil
	}
	return "", shared.NewDomainError("INVALID_CHANNEL", "Unknown sales channel: "+s)
}

// ListType distinguishes wholesale from retail price lists
type ListType string

const (
	ListTypeWholesale ListType = "wholesale"
	ListTypeRetail    ListType = "retail"
)

// PriceList is a dated, channel-scoped pricing configuration for a branch.
type PriceList struct {
	shared.TenantAggregateRoot
	BranchID  uuid.UUID
	Code      string
	Name      string
	Type      ListType
	Channel   Channel
	Currency  valueobject.Currency
	ValidFrom time.Time
	ValidTo   time.Time
	Status    Status
	UpdatedBy uuid.UUID
}

// NewPriceList creates an active price list
func NewPriceList(tenantID, branchID uuid.UUID, code, name string, channel Channel, currency valueobject.Currency, from, to time.Time) (*PriceList, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > 10 {
		return nil, shared.NewDomainError("INVALID_CODE", "Price list code must have between 1 and 10 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Price list name cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency")
	}
	from, to = Date(from), Date(to)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Price list end date cannot be before start date")
	}

	return &PriceList{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		Code:                strings.ToUpper(code),
		Name:                name,
		Type:                ListTypeRetail,
		Channel:             channel,
		Currency:            currency,
		ValidFrom:           from,
		ValidTo:             to,
		Status:              StatusActive,
	}, nil
}

// IsCurrent reports whether the list is active and its validity window covers the date
func (p *PriceList) IsCurrent(on time.Time) bool {
	return p.Status == StatusActive && Within(on, p.ValidFrom, p.ValidTo)
}

// Date keeps only the calendar date of t, as UTC midnight
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Within reports whether the calendar date of on lies in [from, to] inclusive
func Within(on, from, to time.Time) bool {
	day := Date(on)
	return !day.Before(Date(from)) && !day.After(Date(to))
}
