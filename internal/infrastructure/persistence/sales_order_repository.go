package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/trade"
	"github.com/trading-system/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order with its lines
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var m models.SalesOrderModel
	err := conn(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("find sales order: %w", err)
	}
	return m.ToDomain(), nil
}

// Save upserts the order header and replaces its lines
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	m := models.SalesOrderModelFromDomain(order)
	lines := m.Lines
	m.Lines = nil

	save := func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("save sales order: %w", err)
		}
		if err := tx.Where("order_id = ?", m.ID).Delete(&models.SalesOrderLineModel{}).Error; err != nil {
			return fmt.Errorf("delete sales order lines: %w", err)
		}
		if len(lines) == 0 {
			return nil
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("create sales order lines: %w", err)
		}
		return nil
	}

	db := conn(ctx, r.db)
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return save(db)
	}
	return db.Transaction(save)
}

// NextOrderNumber increments and returns the company's order counter.
// The row lock keeps numbers unique under concurrent creates.
func (r *GormSalesOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var next int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		seed := models.OrderSequenceModel{TenantID: tenantID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		var seq models.OrderSequenceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&seq, "tenant_id = ?", tenantID).Error; err != nil {
			return err
		}
		next = seq.LastNumber + 1
		return tx.Model(&models.OrderSequenceModel{}).
			Where("tenant_id = ?", tenantID).
			Update("last_number", next).Error
	})
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return next, nil
}
