package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestInitTracing_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	tp, err := InitTracing(context.Background(), OTelConfig{Enabled: false}, logger)

	assert.NoError(t, err)
	assert.Nil(t, tp)
	assert.Contains(t, buf.String(), "disabled")
}

func TestInitTracing_Enabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	// The OTLP gRPC exporter dials lazily, so provider construction succeeds
	// without a live collector.
	tp, err := InitTracing(context.Background(), OTelConfig{
		Enabled:        true,
		Endpoint:       "localhost:4317",
		ServiceName:    "relay-test",
		ServiceVersion: "0.0.1",
		Insecure:       true,
	}, logger)

	require.NoError(t, err)
	require.NotNil(t, tp)

	shutdownCtx, cancel := context.WithCancel(context.Background())
	cancel() // do not wait on export to an absent collector
	_ = ShutdownTracing(shutdownCtx, tp, logger)
}

func TestShutdownTracing_NilProvider(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	assert.NoError(t, ShutdownTracing(context.Background(), nil, logger))
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()), "no span means no trace id")

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	got := TraceID(ctx)
	assert.Len(t, got, 32)
	assert.Equal(t, span.SpanContext().TraceID().String(), got)
}

func TestUpdateLoggerWithTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	// Without a recording span the logger passes through unchanged.
	same := UpdateLoggerWithTraceContext(context.Background(), logger)
	assert.Same(t, logger, same)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	enriched := UpdateLoggerWithTraceContext(ctx, logger)
	enriched.Info("with trace")

	out := buf.String()
	assert.Contains(t, out, span.SpanContext().TraceID().String())
	assert.Contains(t, out, span.SpanContext().SpanID().String())
}

func TestTraceID_NonRecordingContext(t *testing.T) {
	// A context holding only a remote span context still yields the id.
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	assert.Equal(t, sc.TraceID().String(), TraceID(ctx))
}
