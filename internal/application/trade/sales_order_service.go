package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	apppricing "github.com/trading-system/backend/internal/application/pricing"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/domain/trade"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"github.com/trading-system/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LinePricer prices order lines. Implemented by apppricing.PricingService.
type LinePricer interface {
	CalculateLines(ctx context.Context, priceList *pricing.PriceList, channel pricing.Channel, lines []apppricing.LineInput, on time.Time) ([]apppricing.PricedLine, error)
}

// ErrNoActivePriceList is returned when no list is in force for the branch and channel
var ErrNoActivePriceList = shared.NewDomainError("NO_ACTIVE_PRICE_LIST", "No active price list for the branch and channel")

// SalesOrderService creates and reprices sales quotations
type SalesOrderService struct {
	txm        shared.TransactionManager
	orderRepo  trade.SalesOrderRepository
	priceLists pricing.PriceListRepository
	pricer     LinePricer
	today      func() time.Time
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	txm shared.TransactionManager,
	orderRepo trade.SalesOrderRepository,
	priceLists pricing.PriceListRepository,
	pricer LinePricer,
) *SalesOrderService {
	return &SalesOrderService{
		txm:        txm,
		orderRepo:  orderRepo,
		priceLists: priceLists,
		pricer:     pricer,
		today:      func() time.Time { return pricing.Date(time.Now()) },
	}
}

// SetToday overrides the clock that dates pricing and price list lookups
func (s *SalesOrderService) SetToday(today func() time.Time) {
	if today != nil {
		s.today = today
	}
}

// Create prices every line through the pricing engine and stores a pending order
func (s *SalesOrderService) Create(ctx context.Context, rc shared.RequestContext, req SalesOrderRequest) (*SalesOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", "create")
	defer span.End()

	channel, err := pricing.ParseChannel(req.Channel)
	if err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		priceList, err := s.resolvePriceList(ctx, rc.TenantID, req.BranchID, channel, req.PriceListID)
		if err != nil {
			return err
		}

		order, err = trade.NewSalesOrder(rc.TenantID, req.BranchID, req.CustomerID, sellerOf(rc, req), channel, priceList)
		if err != nil {
			return err
		}
		if err := s.priceLines(ctx, order, priceList, channel, req.Lines); err != nil {
			return err
		}

		number, err := s.orderRepo.NextOrderNumber(ctx, rc.TenantID)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("Sales order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()),
		zap.Bool("requires_approval", order.RequiresApproval()),
	)
	telemetry.SetOK(span)
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// Update reprices a pending order and replaces all of its lines
func (s *SalesOrderService) Update(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req SalesOrderRequest) (*SalesOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", "update")
	defer span.End()

	channel, err := pricing.ParseChannel(req.Channel)
	if err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err = s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.IsPending() {
			return shared.NewDomainError("INVALID_STATE", "Only pending orders can be modified")
		}

		priceList, err := s.resolvePriceList(ctx, order.TenantID, req.BranchID, channel, req.PriceListID)
		if err != nil {
			return err
		}
		if err := order.Reassign(req.CustomerID, sellerOf(rc, req), channel, priceList); err != nil {
			return err
		}
		if err := s.priceLines(ctx, order, priceList, channel, req.Lines); err != nil {
			return err
		}
		order.IncrementVersion()
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("Sales order repriced", zap.String("order_id", order.ID.String()), zap.String("total", order.Total.String()))
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

func (s *SalesOrderService) priceLines(ctx context.Context, order *trade.SalesOrder, priceList *pricing.PriceList, channel pricing.Channel, inputs []SalesOrderLineInput) error {
	if len(inputs) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Order must have at least one line")
	}
	lineInputs := make([]apppricing.LineInput, len(inputs))
	for i, in := range inputs {
		lineInputs[i] = apppricing.LineInput{ArticleID: in.ArticleID, Quantity: in.Quantity}
	}

	priced, err := s.pricer.CalculateLines(ctx, priceList, channel, lineInputs, s.today())
	if err != nil {
		return err
	}

	lines := make([]trade.SalesOrderLine, 0, len(priced))
	for _, p := range priced {
		line, err := trade.NewSalesOrderLine(order.ID, p.Article.Code, p.Article.Description, p.Result)
		if err != nil {
			return err
		}
		lines = append(lines, *line)
	}
	return order.ReplaceLines(lines)
}

func (s *SalesOrderService) resolvePriceList(ctx context.Context, tenantID, branchID uuid.UUID, channel pricing.Channel, explicit *uuid.UUID) (*pricing.PriceList, error) {
	if explicit != nil && *explicit != uuid.Nil {
		return s.priceLists.FindByID(ctx, *explicit)
	}
	lists, err := s.priceLists.FindCurrent(ctx, pricing.CurrentListFilter{
		TenantID: tenantID,
		BranchID: &branchID,
		Channel:  channel,
		On:       s.today(),
	})
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, ErrNoActivePriceList
	}
	return lists[0], nil
}

func sellerOf(rc shared.RequestContext, req SalesOrderRequest) uuid.UUID {
	if req.SellerID != nil && *req.SellerID != uuid.Nil {
		return *req.SellerID
	}
	return rc.UserID
}
