// Package config provides application configuration from a YAML file and
// environment variables.
//
// # Overview
//
// Configuration resolves in three layers: built-in defaults, the optional
// YAML file, then RELAY_* environment variables. Every setting has a
// sensible default so the binary starts with no file at all.
//
// # Configuration Structure
//
// Server settings:
//
//	RELAY_HOST="0.0.0.0"
//	RELAY_PORT="8080"
//	RELAY_METRICS_PORT="9090"
//	RELAY_READ_TIMEOUT="15s"
//	RELAY_WRITE_TIMEOUT="15s"
//	RELAY_SHUTDOWN_TIMEOUT="30s"
//
// Dependency settings:
//
//	RELAY_MYSQL_DSN="user:pass@tcp(localhost:3306)/relay"
//	RELAY_REDIS_ADDR="localhost:6379"
//	RELAY_DEP_CHECK_INTERVAL="15s"
//	RELAY_DEP_CHECK_TIMEOUT="5s"
//
// Observability settings:
//
//	RELAY_LOG_LEVEL="info"  # debug, info, warn, error
//	RELAY_OTEL_ENABLED="true"
//	RELAY_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig("relay.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// WatchLogLevel applies log-level edits to a running process when the file
// changes; no other setting reloads at runtime.
//
// # Related Packages
//
//   - pkg/observability: Uses observability configuration
//   - pkg/server: Uses server configuration
package config
