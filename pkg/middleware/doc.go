// Package middleware implements the HTTP request pipeline: an ordered chain
// of decorators folded once around a terminal handler.
//
// # Composition
//
// A Decorator transforms a handler into a wrapping handler. Chain folds a
// list so the first decorator is outermost: request-phase logic runs in
// declared order, completion-phase logic (deferred work) unwinds in reverse.
//
//	pipeline := middleware.Chain(
//		middleware.Recovery(logger, metrics.PanicsTotal),
//		middleware.RouteContext(),
//		middleware.RequestID(),
//		middleware.CaptureResponse(),
//		middleware.Tracing(nil),
//		middleware.DependencyGate(snapshot),
//		middleware.Metrics(metrics),
//		middleware.Logging(logger),
//		middleware.InFlight(metrics.HTTPRequestsInFlight),
//	)
//	router.Use(mux.MiddlewareFunc(pipeline))
//
// # Ordering contract
//
// Two orderings are load-bearing and must not be changed:
//
//   - Recovery is outermost, so every panic from an inner frame is logged
//     and counted exactly once before re-raising.
//   - RouteContext runs before anything that reads the route pattern
//     (tracing span names, metric labels, log events).
//
// The dependency gate sits outside Metrics and Logging so a gated 503
// produces no per-route series and no request-finished event, while the
// span (opened before the gate) still records the short-circuit.
//
// # Per-request state
//
// CaptureResponse owns the only mutable per-request record, the wrapped
// ResponseWriter; inner frames read it at completion time via Captured.
// Everything else flows through the request context with write-once keys
// defined in pkg/contextkeys.
package middleware
