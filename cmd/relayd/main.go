// Command relayd runs the relay HTTP service chassis: the instrumented
// request pipeline, the dependency checker, and the two-listener lifecycle.
// Business routes are registered on the returned server by embedders; the
// stock binary serves the healthcheck and metrics surfaces.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/relaykit/relay/pkg/config"
	"github.com/relaykit/relay/pkg/health"
	"github.com/relaykit/relay/pkg/observability"
	"github.com/relaykit/relay/pkg/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(cfg.LogLevel(), os.Stdout)
	build := health.CurrentBuildInfo()
	logger.WithFields(map[string]interface{}{
		"version":    build.Version,
		"git_commit": build.GitCommit,
		"build_date": build.BuildDate,
	}).Info("relayd starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.WatchLogLevel(ctx, *configPath, logger); err != nil {
		logger.WithError(err).Warn("Config watcher disabled")
	}

	// Tracing is optional: a failed init degrades to no tracing rather
	// than aborting startup.
	tp, err := observability.InitTracing(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Tracing initialization failed, continuing without tracing")
		tp = nil
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	snapshot := &health.Snapshot{}

	var db *sql.DB
	if cfg.Dependencies.MySQLDSN != "" {
		db, err = sql.Open("mysql", cfg.Dependencies.MySQLDSN)
		if err != nil {
			// sql.Open only validates the DSN; a bad one is a
			// configuration error, not a dependency outage.
			logger.WithError(err).Error("MySQL DSN invalid")
			return 1
		}
		defer db.Close()
	}

	var redisClient *redis.Client
	if cfg.Dependencies.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Dependencies.RedisAddr,
			Password: cfg.Dependencies.RedisPassword,
			DB:       cfg.Dependencies.RedisDB,
		})
		defer redisClient.Close()
	}

	checker := health.NewChecker(db, redisClient, snapshot,
		cfg.Dependencies.CheckInterval.Std(), cfg.Dependencies.CheckTimeout.Std(),
		logger, metrics)
	go checker.Run(ctx)

	// A nil *TracerProvider must stay a nil interface so the pipeline
	// falls back to the global (no-op) provider.
	var tracerProvider trace.TracerProvider
	if tp != nil {
		tracerProvider = tp
	}

	srv := server.New(server.Options{
		Logger:         logger,
		Metrics:        metrics,
		Snapshot:       snapshot,
		TracerProvider: tracerProvider,
		Build:          build,
	})

	businessSrv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}
	metricsSrv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:      server.NewMetricsHandler(registry, build),
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	orchestrator := server.NewOrchestrator(logger, businessSrv, metricsSrv, cfg.Server.ShutdownTimeout.Std())

	exitCode := 0
	if err := orchestrator.Run(ctx); err != nil {
		logger.WithError(err).Error("Server exited with error")
		exitCode = 1
	}

	if tp != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := observability.ShutdownTracing(shutdownCtx, tp, logger); err != nil {
			logger.WithError(err).Error("Tracing shutdown error")
		}
	}

	logger.Info("relayd stopped")
	return exitCode
}
