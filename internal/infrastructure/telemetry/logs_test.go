package telemetry

import (
	"context"
	"runtime/pprof"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.records))
	for i, r := range e.records {
		out[i] = r.Body().AsString()
	}
	return out
}

func TestBridgeLogger_Disabled(t *testing.T) {
	base := zap.NewNop()
	p := &Providers{}
	assert.Same(t, base, p.BridgeLogger(base))
}

func TestBridgeLogger_TeesRecords(t *testing.T) {
	exp := &recordingExporter{}
	p := &Providers{
		name: "trading-test",
		logs: sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp))),
	}
	t.Cleanup(func() { _ = p.logs.Shutdown(context.Background()) })

	core, observed := observer.New(zapcore.InfoLevel)
	log := p.BridgeLogger(zap.New(core))

	log.Debug("dropped on both sides")
	log.Info("price quoted", zap.String("channel", "B2B"))
	log.With(zap.String("tenant_id", "t1")).Warn("floor applied")

	assert.Equal(t, 2, observed.Len())
	require.Equal(t, []string{"price quoted", "floor applied"}, exp.bodies())
}

func TestWithProfileLabels(t *testing.T) {
	var channel string
	var ok bool
	WithProfileLabels(context.Background(), func(ctx context.Context) {
		channel, ok = pprof.Label(ctx, "channel")
	}, "operation", "simulate", "channel", "ECOMMERCE")

	assert.True(t, ok)
	assert.Equal(t, "ECOMMERCE", channel)

	called := false
	WithProfileLabels(context.Background(), func(context.Context) { called = true })
	assert.True(t, called)
}
