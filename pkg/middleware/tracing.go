package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/relaykit/relay/pkg/contextkeys"
)

// tracerName identifies this instrumentation scope.
const tracerName = "github.com/relaykit/relay/pkg/middleware"

// Tracing opens exactly one span per request, named by the resolved route
// pattern or "<METHOD> <raw-path>" when no pattern is available. Inbound
// W3C trace context is honored so the span joins an existing trace.
//
// Completion work runs in a defer so the span is closed exactly once on
// every exit path, panic unwind included. A request whose handler never
// wrote a response is recorded as an error.
//
// Pass nil to use the globally installed tracer provider.
func Tracing(tp trace.TracerProvider) Decorator {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(tracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			pattern := contextkeys.GetRoutePattern(ctx)
			name := pattern
			if name == "" {
				name = r.Method + " " + r.URL.Path
			}

			ctx, span := tracer.Start(ctx, name,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.route", pattern),
					attribute.String("url.path", r.URL.Path),
				),
			)

			start := time.Now()
			defer func() {
				status := 0
				var responseBytes int64
				if rw := Captured(w); rw != nil {
					status = rw.Status()
					responseBytes = rw.BytesWritten()
				}

				span.SetAttributes(
					attribute.Int("http.status_code", status),
					attribute.Int64("http.response.size", responseBytes),
					attribute.String("http.duration", time.Since(start).String()),
				)
				for k, v := range mux.Vars(r) {
					span.SetAttributes(attribute.String("http.path."+k, v))
				}

				switch {
				case status == 0:
					span.SetStatus(codes.Error, "no response written")
				case status >= 400:
					span.SetStatus(codes.Error, http.StatusText(status))
				default:
					span.SetStatus(codes.Ok, "")
				}

				span.End()
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
