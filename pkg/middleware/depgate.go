package middleware

import (
	"net/http"

	"github.com/relaykit/relay/pkg/contextkeys"
	"github.com/relaykit/relay/pkg/health"
)

// dependencyGateBody is the exact 503 payload clients receive while a
// required dependency is down. Raw bytes, not a marshal, so the body is
// byte-stable across releases.
var dependencyGateBody = []byte(`{"error":"Service Unavailable","detail":"Missing dependencies"}`)

// DependencyGate short-circuits requests while any required dependency is
// flagged failed in the snapshot. The decision is binary: any required
// dependency down gates the entire request, and no inner decorator or the
// terminal handler runs.
//
// Route patterns listed in exempt (such as "/healthcheck") pass through
// regardless of dependency state; the gate reads the pattern published by
// RouteContext, which must run first.
func DependencyGate(snapshot *health.Snapshot, exempt ...string) Decorator {
	exemptPatterns := make(map[string]struct{}, len(exempt))
	for _, pattern := range exempt {
		exemptPatterns[pattern] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if snapshot.Degraded() {
				if _, ok := exemptPatterns[contextkeys.GetRoutePattern(r.Context())]; !ok {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusServiceUnavailable)
					w.Write(dependencyGateBody)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
