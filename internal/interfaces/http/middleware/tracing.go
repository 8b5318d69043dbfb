package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName    string
	Enabled        bool
	TracerProvider trace.TracerProvider
}

// Tracing wraps otelgin and tags the server span with the request ID,
// the acting tenant and user. 5xx responses mark the span as failed.
// Spans are named "METHOD /route/:param".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	opts := []otelgin.Option{}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanAttributes enriches the active server span. It must run after
// Tracing and AuditContext.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			rc := GetRequestContext(c)
			span.SetAttributes(attribute.String("tenant_id", rc.TenantID.String()))
			if rc.HasUser() {
				span.SetAttributes(attribute.String("user_id", rc.UserID.String()))
			}
		}

		c.Next()

		if span.IsRecording() && c.Writer.Status() >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
