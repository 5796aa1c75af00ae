package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/relaykit/relay/pkg/observability"
)

// Checker periodically probes the required dependencies and publishes the
// results into a Snapshot.
type Checker struct {
	db       *sql.DB
	redis    *redis.Client
	snapshot *Snapshot
	interval time.Duration
	timeout  time.Duration
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewChecker creates a dependency checker. Either client may be nil, in
// which case that probe is skipped entirely and the snapshot flag for it is
// left untouched (useful for local development without the full stack).
func NewChecker(db *sql.DB, redisClient *redis.Client, snapshot *Snapshot, interval, timeout time.Duration, logger *observability.Logger, metrics *observability.Metrics) *Checker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		db:       db,
		redis:    redisClient,
		snapshot: snapshot,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run probes all dependencies immediately and then on every tick until ctx
// is cancelled. It is intended to run in its own goroutine.
func (c *Checker) Run(ctx context.Context) {
	c.CheckOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckOnce(ctx)
		}
	}
}

// CheckOnce runs a single probe round and updates the snapshot. Probes
// without a client are skipped rather than reported healthy, so a failure
// flag set outside the checker (an unusable DSN at startup) is never
// cleared by a probe that cannot actually observe the dependency.
func (c *Checker) CheckOnce(ctx context.Context) {
	if c.db != nil {
		c.publish("mysql", c.checkMySQL(ctx), c.snapshot.MySQLFailed(), c.snapshot.SetMySQLFailed)
	}
	if c.redis != nil {
		c.publish("redis", c.checkRedis(ctx), c.snapshot.RedisFailed(), c.snapshot.SetRedisFailed)
	}
}

// publish records a probe outcome, logging only on state transitions so a
// flapping dependency does not flood the log.
func (c *Checker) publish(name string, err error, wasFailed bool, set func(bool)) {
	failed := err != nil
	set(failed)

	if c.metrics != nil {
		up := 1.0
		if failed {
			up = 0.0
		}
		c.metrics.DependencyUp.WithLabelValues(name).Set(up)
	}

	switch {
	case failed && !wasFailed:
		c.logger.WithError(err).Errorf("Dependency %s is down, gating requests", name)
	case !failed && wasFailed:
		c.logger.Infof("Dependency %s recovered", name)
	}
}

// checkMySQL pings the database and runs a trivial query to verify the
// connection is actually usable, not just dialable.
func (c *Checker) checkMySQL(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return err
	}

	var one int
	return c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// checkRedis pings the Redis server.
func (c *Checker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.redis.Ping(ctx).Err()
}
