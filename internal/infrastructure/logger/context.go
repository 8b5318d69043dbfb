package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	metaKey
)

// meta carries the request attributes attached to every log entry
type meta struct {
	requestID string
	tenantID  string
	userID    string
}

// WithContext attaches a logger to the context
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the attached logger or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func metaFrom(ctx context.Context) meta {
	m, _ := ctx.Value(metaKey).(meta)
	return m
}

// WithRequestID records the request ID for later log entries
func WithRequestID(ctx context.Context, requestID string) context.Context {
	m := metaFrom(ctx)
	m.requestID = requestID
	return context.WithValue(ctx, metaKey, m)
}

// WithActor records the tenant and user acting in this request
func WithActor(ctx context.Context, tenantID, userID string) context.Context {
	m := metaFrom(ctx)
	m.tenantID = tenantID
	m.userID = userID
	return context.WithValue(ctx, metaKey, m)
}

// RequestID returns the request ID recorded in the context
func RequestID(ctx context.Context) string {
	return metaFrom(ctx).requestID
}

// L returns the context logger enriched with trace_id, span_id, request_id,
// tenant_id and user_id when present.
//
//	logger.L(ctx).Info("price updated", zap.String("article_id", id))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	fields := make([]zap.Field, 0, 5)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	m := metaFrom(ctx)
	if m.requestID != "" {
		fields = append(fields, zap.String("request_id", m.requestID))
	}
	if m.tenantID != "" {
		fields = append(fields, zap.String("tenant_id", m.tenantID))
	}
	if m.userID != "" {
		fields = append(fields, zap.String("user_id", m.userID))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
