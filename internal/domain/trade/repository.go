package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/shared"
)

// ErrSalesOrderNotFound is returned when an order does not exist
var ErrSalesOrderNotFound = shared.NewDomainError("SALES_ORDER_NOT_FOUND", "Sales order not found")

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByID loads the order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// Save inserts or updates the order and replaces its lines
	Save(ctx context.Context, order *SalesOrder) error

	// NextOrderNumber returns the next sequential order number for the company
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
