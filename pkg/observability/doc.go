// Package observability provides structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// # Overview
//
// This package centralizes observability infrastructure including JSON logging, metric
// registration, and distributed tracing integration. Per-request instrumentation lives
// in pkg/middleware; this package owns the process-wide pieces those decorators record
// into.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Infof("Server started on %s", addr)
//
// Context-aware logging:
//
//	logger.WithField("request_id", reqID).WithError(err).Error("Request failed")
//
// The level can be changed at runtime via SetLevel; pkg/config's watcher uses
// this to apply log-level edits without a restart.
//
// # Prometheus Metrics
//
// Initialize metrics once at startup:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//
// Per-request recording is done exclusively by the pipeline decorators with a
// fixed {route, method, result} label schema.
//
// # OpenTelemetry
//
// Initialize tracing:
//
//	tp, err := observability.InitTracing(ctx, observability.OTelConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "relay",
//	}, logger)
//
// Initialization failure is not fatal: callers log the error and run with
// tracing disabled.
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/middleware: Request pipeline decorators
//   - pkg/health: Dependency snapshot and probes
package observability
