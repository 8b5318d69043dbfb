package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// DBTracingConfig controls GORM instrumentation
type DBTracingConfig struct {
	DBName          string
	LogFullSQL      bool // keep query variables in spans; never in production
	SlowQueryThresh time.Duration
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

type startKey struct{}

// RegisterDBTracing installs otelgorm and a slow-query marker on db
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	if cfg.SlowQueryThresh <= 0 {
		return nil
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, startKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSlowQuery(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("slow_query:before_create", before),
		cb.Query().Before("gorm:query").Register("slow_query:before_query", before),
		cb.Update().Before("gorm:update").Register("slow_query:before_update", before),
		cb.Delete().Before("gorm:delete").Register("slow_query:before_delete", before),
		cb.Raw().Before("gorm:raw").Register("slow_query:before_raw", before),
		cb.Create().After("gorm:create").Register("slow_query:after_create", after),
		cb.Query().After("gorm:query").Register("slow_query:after_query", after),
		cb.Update().After("gorm:update").Register("slow_query:after_update", after),
		cb.Delete().After("gorm:delete").Register("slow_query:after_delete", after),
		cb.Raw().After("gorm:raw").Register("slow_query:after_raw", after),
	}
	return errors.Join(errs...)
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	start, ok := ctx.Value(startKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}

// RegisterPoolMetrics exports connection pool statistics as observable gauges
func RegisterPoolMetrics(meter metric.Meter, sqlDB *sql.DB) error {
	open, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"), metric.WithUnit("{connection}"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return fmt.Errorf("failed to create pool max gauge: %w", err)
	}
	state := attribute.Key("state")
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(open, int64(s.InUse), metric.WithAttributes(state.String("in_use")))
		o.ObserveInt64(open, int64(s.Idle), metric.WithAttributes(state.String("idle")))
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections))
		return nil
	}, open, maxOpen)
	return err
}
