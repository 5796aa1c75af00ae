package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/relaykit/relay/pkg/contextkeys"
)

// newSpanRecorder returns a provider whose finished spans can be inspected.
func newSpanRecorder() (*tracetest.SpanRecorder, trace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(recorder),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return recorder, provider
}

func attrValue(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_SpanNamedByRoutePattern(t *testing.T) {
	recorder, provider := newSpanRecorder()
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Chain(CaptureResponse(), Tracing(provider))(terminal)

	req := httptest.NewRequest("GET", "/items/42", nil)
	req = req.WithContext(contextkeys.WithRoutePattern(req.Context(), "/items/{id}"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1, "exactly one span per request")
	span := spans[0]
	assert.Equal(t, "/items/{id}", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
	assert.Equal(t, codes.Ok, span.Status().Code)

	status, ok := attrValue(span, "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())
}

func TestTracing_FallbackNameWithoutPattern(t *testing.T) {
	recorder, provider := newSpanRecorder()
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Chain(CaptureResponse(), Tracing(provider))(terminal)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/raw/path", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /raw/path", spans[0].Name())
}

func TestTracing_ErrorStatusForFailedRequests(t *testing.T) {
	tests := []struct {
		name       string
		writeCode  int // 0 means the handler writes nothing
		wantStatus codes.Code
	}{
		{"2xx is ok", http.StatusOK, codes.Ok},
		{"3xx is ok", http.StatusFound, codes.Ok},
		{"4xx is error", http.StatusNotFound, codes.Error},
		{"5xx is error", http.StatusBadGateway, codes.Error},
		{"unwritten response is error", 0, codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, provider := newSpanRecorder()
			terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.writeCode != 0 {
					w.WriteHeader(tt.writeCode)
				}
			})
			h := Chain(CaptureResponse(), Tracing(provider))(terminal)

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantStatus, spans[0].Status().Code)
		})
	}
}

func TestTracing_SpanEndsOnPanic(t *testing.T) {
	recorder, provider := newSpanRecorder()
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Chain(CaptureResponse(), Tracing(provider))(terminal)

	assert.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})

	spans := recorder.Ended()
	require.Len(t, spans, 1, "span must be closed on panic unwind")
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_HonorsInboundTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	recorder, provider := newSpanRecorder()
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Chain(CaptureResponse(), Tracing(provider))(terminal)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
}
