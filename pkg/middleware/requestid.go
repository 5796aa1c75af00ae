package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/relaykit/relay/pkg/contextkeys"
)

// requestIDHeader carries the request id to and from clients.
const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a unique id, honoring an inbound
// X-Request-ID header so ids survive proxy hops. The id is echoed in the
// response and published into the request context for the logger.
func RequestID() Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx := contextkeys.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
