package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relaykit/relay/pkg/contextkeys"
)

// RouteContext resolves the matched route template (e.g. "/items/{id}") and
// publishes it into the request context before any consumer reads it. The
// pattern is independent of concrete path-variable values, which keeps every
// downstream label and span name low-cardinality.
//
// Mount the pipeline via router.Use so mux has dispatched before this runs.
// If no route matched anyway, an empty pattern is propagated rather than
// failing the request.
func RouteContext() Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pattern := ""
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					pattern = tmpl
				}
			}
			ctx := contextkeys.WithRoutePattern(r.Context(), pattern)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
