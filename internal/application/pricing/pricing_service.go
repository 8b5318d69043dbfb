package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"github.com/trading-system/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MetricsRecorder receives pricing outcomes. Implemented by telemetry.PricingMetrics.
type MetricsRecorder interface {
	RecordCalculation(ctx context.Context, channel string, outcome string)
	RecordFloorClamp(ctx context.Context, channel string)
	RecordBelowCost(ctx context.Context, channel string)
}

// Calculation outcomes reported to MetricsRecorder
const (
	OutcomeOK            = "ok"
	OutcomeNotConfigured = "not_configured"
	OutcomeError         = "error"
)

type noopRecorder struct{}

func (noopRecorder) RecordCalculation(context.Context, string, string) {}
func (noopRecorder) RecordFloorClamp(context.Context, string)          {}
func (noopRecorder) RecordBelowCost(context.Context, string)           {}

// LineInput is an (article, quantity) pair to be priced
type LineInput struct {
	ArticleID uuid.UUID
	Quantity  decimal.Decimal
}

// PricedLine couples a pricing result with the article snapshot used
type PricedLine struct {
	Article *catalog.Article
	Result  *pricing.PricingResult
}

// PricingService is the entry point to the pricing engine for quoting,
// simulation and order pricing.
type PricingService struct {
	articles   catalog.ArticleRepository
	priceLists pricing.PriceListRepository
	engine     *pricing.Engine
	metrics    MetricsRecorder
}

// NewPricingService creates a new PricingService
func NewPricingService(
	articles catalog.ArticleRepository,
	priceLists pricing.PriceListRepository,
	engine *pricing.Engine,
) *PricingService {
	return &PricingService{
		articles:   articles,
		priceLists: priceLists,
		engine:     engine,
		metrics:    noopRecorder{},
	}
}

// SetMetrics sets the recorder for pricing outcomes
func (s *PricingService) SetMetrics(m MetricsRecorder) {
	if m != nil {
		s.metrics = m
	}
}

// PriceList loads a price list
func (s *PricingService) PriceList(ctx context.Context, id uuid.UUID) (*pricing.PriceList, error) {
	return s.priceLists.FindByID(ctx, id)
}

// Calculate prices one article. Lookup errors are returned unchanged.
func (s *PricingService) Calculate(ctx context.Context, articleID uuid.UUID, priceList *pricing.PriceList, channel pricing.Channel, quantity decimal.Decimal, on time.Time) (*PricedLine, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "calculate",
		telemetry.WithAttribute("article_id", articleID.String()),
		telemetry.WithAttribute("price_list_id", priceList.ID.String()),
		telemetry.WithAttribute("channel", string(channel)),
	)
	defer span.End()

	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result, err := s.engine.CalculatePrice(ctx, pricing.Calculation{
		Article:   article,
		PriceList: priceList,
		Channel:   channel,
		Quantity:  quantity,
		On:        on,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		var notConfigured *pricing.PriceNotConfiguredError
		if errors.As(err, &notConfigured) {
			s.metrics.RecordCalculation(ctx, string(channel), OutcomeNotConfigured)
		} else {
			s.metrics.RecordCalculation(ctx, string(channel), OutcomeError)
		}
		return nil, err
	}

	s.metrics.RecordCalculation(ctx, string(channel), OutcomeOK)
	if result.FloorApplied {
		s.metrics.RecordFloorClamp(ctx, string(channel))
	}
	if result.BelowCost {
		s.metrics.RecordBelowCost(ctx, string(channel))
		logger.L(ctx).Warn("Article priced below cost",
			zap.String("article_id", article.ID.String()),
			zap.String("final_price", result.FinalPrice.String()),
			zap.String("cost", article.CurrentCost.String()),
		)
	}
	logger.L(ctx).Debug("Price calculated",
		zap.String("article_id", article.ID.String()),
		zap.String("price_list_id", priceList.ID.String()),
		zap.String("base_price", result.BasePrice.String()),
		zap.String("final_price", result.FinalPrice.String()),
		zap.Strings("applied_rules", result.AppliedRules),
		zap.Bool("floor_applied", result.FloorApplied),
	)
	telemetry.SetAttribute(span, "final_price", result.FinalPrice.String())
	telemetry.SetOK(span)

	return &PricedLine{Article: article, Result: result}, nil
}

// CalculateLines prices every line against the same list and channel.
// The first failing line aborts the whole call.
func (s *PricingService) CalculateLines(ctx context.Context, priceList *pricing.PriceList, channel pricing.Channel, lines []LineInput, on time.Time) ([]PricedLine, error) {
	priced := make([]PricedLine, 0, len(lines))
	var err error
	telemetry.WithProfileLabels(ctx, func(ctx context.Context) {
		for _, line := range lines {
			var p *PricedLine
			p, err = s.Calculate(ctx, line.ArticleID, priceList, channel, line.Quantity, on)
			if err != nil {
				return
			}
			priced = append(priced, *p)
		}
	}, "operation", "calculate_lines", "channel", string(channel))
	if err != nil {
		return nil, err
	}
	return priced, nil
}

// QuotePrice returns the price breakdown of a single article
func (s *PricingService) QuotePrice(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	channel, err := pricing.ParseChannel(req.Channel)
	if err != nil {
		return nil, err
	}
	on, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	priceList, err := s.priceLists.FindByID(ctx, req.PriceListID)
	if err != nil {
		return nil, err
	}

	priced, err := s.Calculate(ctx, req.ArticleID, priceList, channel, req.Quantity, on)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(priced.Result)
	return &resp, nil
}

// Simulate prices several lines and aggregates totals. Nothing is persisted.
func (s *PricingService) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResponse, error) {
	channel, err := pricing.ParseChannel(req.Channel)
	if err != nil {
		return nil, err
	}
	on, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Simulation requires at least one line")
	}
	priceList, err := s.priceLists.FindByID(ctx, req.PriceListID)
	if err != nil {
		return nil, err
	}

	inputs := make([]LineInput, len(req.Lines))
	for i, l := range req.Lines {
		inputs[i] = LineInput{ArticleID: l.ArticleID, Quantity: l.Quantity}
	}
	priced, err := s.CalculateLines(ctx, priceList, channel, inputs, on)
	if err != nil {
		return nil, err
	}

	resp := &SimulateResponse{
		PriceListID: priceList.ID,
		Channel:     string(channel),
		Lines:       make([]QuoteResponse, 0, len(priced)),
	}
	subtotal, discount, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range priced {
		line := ToQuoteResponse(p.Result)
		resp.Lines = append(resp.Lines, line)
		subtotal = subtotal.Add(p.Result.BasePrice.Mul(p.Result.Quantity))
		discount = discount.Add(p.Result.DiscountTotal.Mul(p.Result.Quantity))
		total = total.Add(line.LineTotal)
		resp.RequiresApproval = resp.RequiresApproval || p.Result.BelowCost
	}
	resp.Subtotal = valueobject.RoundCents(subtotal)
	resp.DiscountTotal = valueobject.RoundCents(discount)
	resp.Total = valueobject.RoundCents(total)
	return resp, nil
}
