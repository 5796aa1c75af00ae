package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
//
// The label schema for the HTTP series is fixed at {route, method, result}
// where route is the registered template (not the concrete path) and result
// is the coarse status class ("2xx".."5xx"). Cardinality is therefore
// bounded by registered routes x methods x four result buckets.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Pipeline metrics
	HTTPRequestsInFlight prometheus.Gauge
	PanicsTotal          *prometheus.CounterVec

	// Dependency metrics
	DependencyUp *prometheus.GaugeVec
}

// NewMetrics creates and registers all Prometheus metrics
//
// Registration happens exactly once at process startup; recording is the
// only per-request operation.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "result"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "result"},
		),
		HTTPRequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"route", "method", "result"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"route", "method", "result"},
		),

		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "relay_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		PanicsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_http_panics_total",
				Help: "Total number of panics recovered in the request pipeline",
			},
			[]string{"kind"},
		),

		DependencyUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "relay_dependency_up",
				Help: "Whether a required dependency is reachable (1) or failed (0)",
			},
			[]string{"dependency"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSize,
		m.HTTPResponseSize,
		m.HTTPRequestsInFlight,
		m.PanicsTotal,
		m.DependencyUp,
	)

	return m
}

// RegisterMetricsEndpoint registers the /metrics endpoint
//
// OpenMetrics negotiation is enabled so that trace exemplars attached to the
// HTTP series are visible to scrapers that ask for them.
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}
