package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relaykit/relay/pkg/observability"
)

// Recovery is the outermost safety frame of the pipeline. It catches panics
// from any inner decorator or the terminal handler, logs the classification
// with a full stack trace, increments the panic counter, then re-raises so
// net/http's per-connection supervisor decides the connection's fate.
//
// http.ErrAbortHandler is the recognized abort signal handlers use to drop
// a connection deliberately; it is counted separately and logged without
// alarm. Nothing is ever swallowed silently.
func Recovery(logger *observability.Logger, panics *prometheus.CounterVec) Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				kind := "panic"
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					kind = "abort"
				}

				logger.WithFields(map[string]interface{}{
					"panic": rec,
					"kind":  kind,
					"stack": string(debug.Stack()),
					"path":  r.URL.Path,
				}).Error("PANIC in request pipeline")

				if panics != nil {
					panics.WithLabelValues(kind).Inc()
				}

				panic(rec)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
