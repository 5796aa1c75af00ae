package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// InFlight tracks the live concurrent-request count. The decrement is
// deferred so the gauge stays consistent on success, error, and panic
// unwinding alike.
func InFlight(gauge prometheus.Gauge) Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gauge.Inc()
			defer gauge.Dec()
			next.ServeHTTP(w, r)
		})
	}
}
