package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	attrChannel = attribute.Key("channel")
	attrOutcome = attribute.Key("outcome")
)

// PricingMetrics counts price calculations, floor clamps and below-cost sales
type PricingMetrics struct {
	calculations metric.Int64Counter
	floorClamps  metric.Int64Counter
	belowCost    metric.Int64Counter
}

// NewPricingMetrics registers the pricing instruments on meter
func NewPricingMetrics(meter metric.Meter) (*PricingMetrics, error) {
	calculations, err := meter.Int64Counter("pricing_calculations_total",
		metric.WithDescription("Price calculations by channel and outcome"),
		metric.WithUnit("{calculation}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create calculations counter: %w", err)
	}
	floorClamps, err := meter.Int64Counter("pricing_floor_clamps_total",
		metric.WithDescription("Calculations raised to the minimum sale price"),
		metric.WithUnit("{calculation}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create floor clamp counter: %w", err)
	}
	belowCost, err := meter.Int64Counter("pricing_below_cost_total",
		metric.WithDescription("Calculations whose final price is under the article cost"),
		metric.WithUnit("{calculation}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create below cost counter: %w", err)
	}
	return &PricingMetrics{calculations: calculations, floorClamps: floorClamps, belowCost: belowCost}, nil
}

// RecordCalculation counts one calculation
func (m *PricingMetrics) RecordCalculation(ctx context.Context, channel, outcome string) {
	m.calculations.Add(ctx, 1, metric.WithAttributes(attrChannel.String(channel), attrOutcome.String(outcome)))
}

// RecordFloorClamp counts one floor clamp
func (m *PricingMetrics) RecordFloorClamp(ctx context.Context, channel string) {
	m.floorClamps.Add(ctx, 1, metric.WithAttributes(attrChannel.String(channel)))
}

// RecordBelowCost counts one below-cost result
func (m *PricingMetrics) RecordBelowCost(ctx context.Context, channel string) {
	m.belowCost.Add(ctx, 1, metric.WithAttributes(attrChannel.String(channel)))
}
