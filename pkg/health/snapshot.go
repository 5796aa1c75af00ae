// Package health tracks the availability of the process's required external
// dependencies and serves the healthcheck endpoint.
//
// The Checker is the single writer of the Snapshot; the request pipeline's
// dependency gate reads it on every request without locking.
package health

import "sync/atomic"

// Snapshot is the process-wide record of required dependency availability.
//
// Reads and writes are atomic per flag. The gate only needs a binary
// decision, so torn reads across the two flags are acceptable: each flag is
// individually consistent.
type Snapshot struct {
	mysqlFailed atomic.Bool
	redisFailed atomic.Bool
}

// SetMySQLFailed records the outcome of the latest MySQL probe.
func (s *Snapshot) SetMySQLFailed(failed bool) {
	s.mysqlFailed.Store(failed)
}

// SetRedisFailed records the outcome of the latest Redis probe.
func (s *Snapshot) SetRedisFailed(failed bool) {
	s.redisFailed.Store(failed)
}

// MySQLFailed reports whether the last MySQL probe failed.
func (s *Snapshot) MySQLFailed() bool {
	return s.mysqlFailed.Load()
}

// RedisFailed reports whether the last Redis probe failed.
func (s *Snapshot) RedisFailed() bool {
	return s.redisFailed.Load()
}

// Degraded reports whether any required dependency is currently down.
func (s *Snapshot) Degraded() bool {
	return s.mysqlFailed.Load() || s.redisFailed.Load()
}
