// Package server assembles the request pipeline around a gorilla/mux router
// and orchestrates the process lifecycle: two listeners, ordered graceful
// shutdown.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/relaykit/relay/pkg/health"
	"github.com/relaykit/relay/pkg/middleware"
	"github.com/relaykit/relay/pkg/observability"
)

// healthcheckPattern is always served, even while dependencies are down.
const healthcheckPattern = "/healthcheck"

// Options carries the collaborators the server is assembled from.
type Options struct {
	Logger   *observability.Logger
	Metrics  *observability.Metrics
	Snapshot *health.Snapshot

	// TracerProvider may be nil to use the globally installed provider
	// (a no-op when tracing initialization was skipped or failed).
	TracerProvider trace.TracerProvider

	Build health.BuildInfo
}

// Server is the business-request surface: a router with the full pipeline
// applied to every route. Handlers are registered by the caller; the server
// itself only owns the healthcheck endpoint.
type Server struct {
	router *mux.Router
	logger *observability.Logger
}

// New assembles the pipeline in its canonical order and mounts it on a
// fresh router. The pipeline is folded exactly once here; ordering is
// documented in pkg/middleware.
func New(opts Options) *Server {
	router := mux.NewRouter()

	pipeline := middleware.Chain(
		middleware.Recovery(opts.Logger, opts.Metrics.PanicsTotal),
		middleware.RouteContext(),
		middleware.RequestID(),
		middleware.CaptureResponse(),
		middleware.Tracing(opts.TracerProvider),
		middleware.DependencyGate(opts.Snapshot, healthcheckPattern),
		middleware.Metrics(opts.Metrics),
		middleware.Logging(opts.Logger),
		middleware.InFlight(opts.Metrics.HTTPRequestsInFlight),
	)
	router.Use(mux.MiddlewareFunc(pipeline))

	healthHandler := health.NewHandler(opts.Build)
	router.HandleFunc(healthcheckPattern, healthHandler.Healthcheck).Methods(http.MethodGet)

	return &Server{
		router: router,
		logger: opts.Logger,
	}
}

// HandleFunc registers a terminal handler for the given route pattern.
func (s *Server) HandleFunc(pattern string, handler http.HandlerFunc, methods ...string) {
	route := s.router.HandleFunc(pattern, handler)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
}

// Router exposes the underlying router for advanced route registration
// (subrouters, host matching).
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// NewMetricsHandler builds the handler for the metrics listener: the
// Prometheus exposition endpoint plus a bare liveness healthcheck so probes
// against the metrics port work the same as against the business port.
func NewMetricsHandler(registry *prometheus.Registry, build health.BuildInfo) http.Handler {
	m := http.NewServeMux()
	observability.RegisterMetricsEndpoint(m, registry)
	healthHandler := health.NewHandler(build)
	m.HandleFunc(healthcheckPattern, healthHandler.Healthcheck)
	return m
}
