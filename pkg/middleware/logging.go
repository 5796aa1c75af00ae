package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/relaykit/relay/pkg/contextkeys"
	"github.com/relaykit/relay/pkg/observability"
)

// Logging emits exactly one structured "request finished" event per request,
// joining the request group (route pattern, method, user agent, resolved
// path variables, protocol, query) with the response group (bytes written,
// status, duration, completion time) plus the trace and request ids.
//
// It also publishes a request-scoped logger, pre-correlated with the active
// trace and request ids, into the context; terminal handlers retrieve it
// via contextkeys.GetLogger so their events join the request's trace.
//
// The event is emitted from a defer, so it fires on success, error status,
// and the unwound panic path alike. Severity is elevated to error when the
// status is >= 500 or the handler never wrote a response.
func Logging(logger *observability.Logger) Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := observability.UpdateLoggerWithTraceContext(r.Context(), logger)
			if requestID := contextkeys.GetRequestID(r.Context()); requestID != "" {
				reqLogger = reqLogger.WithField("request_id", requestID)
			}
			r = r.WithContext(contextkeys.WithLogger(r.Context(), reqLogger))

			defer func() {
				status := 0
				var bytesWritten int64
				if rw := Captured(w); rw != nil {
					status = rw.Status()
					bytesWritten = rw.BytesWritten()
				}

				level := observability.InfoLevel
				if status >= http.StatusInternalServerError || status == 0 {
					level = observability.ErrorLevel
				}

				attrs := []slog.Attr{
					slog.Group("request",
						slog.String("pattern", contextkeys.GetRoutePattern(r.Context())),
						slog.String("http_method", r.Method),
						slog.String("user_agent", r.UserAgent()),
						slog.Any("path_segs", mux.Vars(r)),
						slog.String("proto", r.Proto),
						slog.String("query", r.URL.RawQuery),
					),
					slog.Group("response",
						slog.Int64("bytes_written", bytesWritten),
						slog.Int("status_code", status),
						slog.Duration("duration", time.Since(start)),
						slog.Time("time", time.Now().UTC()),
					),
				}
				if traceID := observability.TraceID(r.Context()); traceID != "" {
					attrs = append(attrs, slog.String("trace_id", traceID))
				}
				if requestID := contextkeys.GetRequestID(r.Context()); requestID != "" {
					attrs = append(attrs, slog.String("request_id", requestID))
				}

				logger.Log(r.Context(), level, "request finished", attrs...)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
