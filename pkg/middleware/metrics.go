package middleware

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/relaykit/relay/pkg/contextkeys"
	"github.com/relaykit/relay/pkg/observability"
)

// resultClass maps a status code onto the coarse result label. A request
// that never wrote a response counts as a server fault.
func resultClass(status int) string {
	switch {
	case status == 0:
		return "5xx"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Metrics records the request counter and the duration/request-size/
// response-size histograms, labeled {route, method, result}. Recording
// happens in a defer so samples are emitted even when the handler panics.
//
// When the request carries a sampled span, each sample gets an exemplar
// linking it to the trace id, so a metrics query can pivot to a trace.
func Metrics(m *observability.Metrics) Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			defer func() {
				route := contextkeys.GetRoutePattern(r.Context())
				method := r.Method

				status := 0
				var responseBytes int64
				if rw := Captured(w); rw != nil {
					status = rw.Status()
					responseBytes = rw.BytesWritten()
				}
				result := resultClass(status)

				var exemplar prometheus.Labels
				if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() && sc.IsSampled() {
					exemplar = prometheus.Labels{"trace_id": sc.TraceID().String()}
				}

				addCounter(m.HTTPRequestsTotal.WithLabelValues(route, method, result), 1, exemplar)
				observeHistogram(m.HTTPRequestDuration.WithLabelValues(route, method, result), time.Since(start).Seconds(), exemplar)
				if r.ContentLength > 0 {
					observeHistogram(m.HTTPRequestSize.WithLabelValues(route, method, result), float64(r.ContentLength), exemplar)
				}
				observeHistogram(m.HTTPResponseSize.WithLabelValues(route, method, result), float64(responseBytes), exemplar)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// addCounter increments c, attaching an exemplar when one is available and
// the underlying implementation supports it.
func addCounter(c prometheus.Counter, value float64, exemplar prometheus.Labels) {
	if exemplar != nil {
		if ea, ok := c.(prometheus.ExemplarAdder); ok {
			ea.AddWithExemplar(value, exemplar)
			return
		}
	}
	c.Add(value)
}

// observeHistogram records an observation, attaching an exemplar when one
// is available and the underlying implementation supports it.
func observeHistogram(o prometheus.Observer, value float64, exemplar prometheus.Labels) {
	if exemplar != nil {
		if eo, ok := o.(prometheus.ExemplarObserver); ok {
			eo.ObserveWithExemplar(value, exemplar)
			return
		}
	}
	o.Observe(value)
}
