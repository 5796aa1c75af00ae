// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// Every key has exactly one writer, and a value is written at most once per
// request. Later pipeline stages read keys set by earlier stages; none may
// overwrite them.
//
// USAGE PATTERN:
//   import "github.com/relaykit/relay/pkg/contextkeys"
//   ctx = contextkeys.WithRoutePattern(ctx, pattern)
//   pattern := contextkeys.GetRoutePattern(ctx)
package contextkeys

import (
	"context"

	"github.com/relaykit/relay/pkg/observability"
)

// Key is the type for context keys to prevent collisions
type Key string

const (
	// RoutePatternKey contains the matched route template, e.g. "/items/{id}"
	// Set by: middleware.RouteContext (pkg/middleware/route.go)
	// Required by: tracing, metrics and logging middleware
	// Type: string
	RoutePatternKey Key = "route_pattern"

	// RequestIDKey contains request ID string (UUID)
	// Set by: middleware.RequestID (pkg/middleware/requestid.go)
	// Used by: logging middleware, response headers
	// Type: string
	RequestIDKey Key = "request_id"

	// LoggerKey contains *observability.Logger
	// Set by: middleware.Logging (pkg/middleware/logging.go)
	// Used by: handlers that need structured logging correlated with the
	// request's trace and request ids
	// Type: *observability.Logger
	LoggerKey Key = "logger"
)

// Helper functions for type-safe context operations

// WithRoutePattern adds the matched route template to the context
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, RoutePatternKey, pattern)
}

// GetRoutePattern retrieves the matched route template from context.
// Returns "" when the request never passed through the route propagator.
func GetRoutePattern(ctx context.Context) string {
	if pattern, ok := ctx.Value(RoutePatternKey).(string); ok {
		return pattern
	}
	return ""
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithLogger adds logger to the context
func WithLogger(ctx context.Context, logger *observability.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetLogger retrieves the request-scoped logger from context, or nil when
// the request never passed through the logging middleware.
func GetLogger(ctx context.Context) *observability.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*observability.Logger); ok {
		return logger
	}
	return nil
}
