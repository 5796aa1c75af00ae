package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/relaykit/relay/pkg/observability"
)

// Orchestrator owns the business and metrics listeners and performs the
// ordered two-phase shutdown: the business listener drains first so
// in-flight requests can still emit metrics, then the metrics listener
// closes. Shutdown errors are logged, never escalated, and both phases
// always run regardless of the first's outcome.
type Orchestrator struct {
	logger          *observability.Logger
	business        *http.Server
	metrics         *http.Server
	shutdownTimeout time.Duration
}

// NewOrchestrator creates a lifecycle orchestrator for the two listeners.
func NewOrchestrator(logger *observability.Logger, business, metrics *http.Server, shutdownTimeout time.Duration) *Orchestrator {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	return &Orchestrator{
		logger:          logger,
		business:        business,
		metrics:         metrics,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run starts both listeners and blocks until SIGINT/SIGTERM, context
// cancellation, or a listener failure, then shuts down. The returned error
// reflects listener start failures only; shutdown problems are logged.
func (o *Orchestrator) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		o.logger.Infof("Business listener starting on %s", o.business.Addr)
		if err := o.business.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("business listener: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		o.logger.Infof("Metrics listener starting on %s", o.metrics.Addr)
		if err := o.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics listener: %w", err)
		}
		return nil
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		o.logger.Infof("Received signal %s, starting graceful shutdown", sig)
	case <-gctx.Done():
		// Caller cancelled or a listener failed; g.Wait below surfaces
		// the listener error.
		o.logger.Info("Run context finished, starting graceful shutdown")
	}

	o.Shutdown()

	return g.Wait()
}

// metricsShutdownTimeout bounds the metrics-listener close. Scrapes are
// short, and the budget is separate from the business drain so an exhausted
// drain still leaves the metrics listener a graceful close.
const metricsShutdownTimeout = 5 * time.Second

// Shutdown performs the two-phase shutdown. Exposed so callers embedding
// the orchestrator in their own signal handling can trigger it directly.
func (o *Orchestrator) Shutdown() {
	drainCtx, drainCancel := context.WithTimeout(context.Background(), o.shutdownTimeout)
	defer drainCancel()

	o.logger.Info("Draining business listener")
	if err := o.business.Shutdown(drainCtx); err != nil {
		o.logger.WithError(err).Error("Business listener shutdown error")
	} else {
		o.logger.Info("Business listener closed")
	}

	metricsCtx, metricsCancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer metricsCancel()

	o.logger.Info("Stopping metrics listener")
	if err := o.metrics.Shutdown(metricsCtx); err != nil {
		o.logger.WithError(err).Error("Metrics listener shutdown error")
	} else {
		o.logger.Info("Metrics listener closed")
	}
}
