package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relaykit/relay/pkg/observability"
)

// Config holds all application configuration
//
// Values are resolved in three layers: built-in defaults, then the optional
// YAML file, then RELAY_* environment variables. The loaded value is passed
// by explicit reference into constructors and never mutated afterwards; the
// one runtime-adjustable setting (log level) is applied through
// Logger.SetLevel by the file watcher, not by mutating this struct.
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`

	// Dependency configuration
	Dependencies DependenciesConfig `yaml:"dependencies"`
}

// Duration wraps time.Duration so YAML can carry values like "15s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for duration strings.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         string   `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`

	// Bound on the business-listener drain during graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`

	// Metrics listener (separate port, independent lifecycle)
	MetricsPort string `yaml:"metrics_port"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel string `yaml:"log_level"`

	// OpenTelemetry
	OTelEnabled        bool   `yaml:"otel_enabled"`
	OTelEndpoint       string `yaml:"otel_endpoint"`
	OTelServiceName    string `yaml:"otel_service_name"`
	OTelServiceVersion string `yaml:"otel_service_version"`
	OTelInsecure       bool   `yaml:"otel_insecure"`
}

// DependenciesConfig holds the clients behind the dependency gate
type DependenciesConfig struct {
	MySQLDSN      string   `yaml:"mysql_dsn"`
	RedisAddr     string   `yaml:"redis_addr"`
	RedisPassword string   `yaml:"redis_password"`
	RedisDB       int      `yaml:"redis_db"`
	CheckInterval Duration `yaml:"check_interval"`
	CheckTimeout  Duration `yaml:"check_timeout"`
}

// LoadConfig loads configuration from the optional YAML file at path and
// the environment. Environment variables win over file values.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(30 * time.Second),
			MetricsPort:     "9090",
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			OTelEnabled:        false,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "relay",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
		Dependencies: DependenciesConfig{
			RedisDB:       0,
			CheckInterval: Duration(15 * time.Second),
			CheckTimeout:  Duration(5 * time.Second),
		},
	}
}

// applyEnvOverrides applies RELAY_* environment variables on top of cfg.
func applyEnvOverrides(cfg *Config) {
	cfg.Server.Host = getEnv("RELAY_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("RELAY_PORT", cfg.Server.Port)
	cfg.Server.MetricsPort = getEnv("RELAY_METRICS_PORT", cfg.Server.MetricsPort)
	cfg.Server.ReadTimeout = getEnvDuration("RELAY_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("RELAY_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvDuration("RELAY_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("RELAY_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Observability.LogLevel = getEnv("RELAY_LOG_LEVEL", cfg.Observability.LogLevel)
	cfg.Observability.OTelEnabled = getEnvBool("RELAY_OTEL_ENABLED", cfg.Observability.OTelEnabled)
	cfg.Observability.OTelEndpoint = getEnv("RELAY_OTEL_ENDPOINT", cfg.Observability.OTelEndpoint)
	cfg.Observability.OTelServiceName = getEnv("RELAY_OTEL_SERVICE_NAME", cfg.Observability.OTelServiceName)
	cfg.Observability.OTelServiceVersion = getEnv("RELAY_OTEL_SERVICE_VERSION", cfg.Observability.OTelServiceVersion)
	cfg.Observability.OTelInsecure = getEnvBool("RELAY_OTEL_INSECURE", cfg.Observability.OTelInsecure)

	cfg.Dependencies.MySQLDSN = getEnv("RELAY_MYSQL_DSN", cfg.Dependencies.MySQLDSN)
	cfg.Dependencies.RedisAddr = getEnv("RELAY_REDIS_ADDR", cfg.Dependencies.RedisAddr)
	cfg.Dependencies.RedisPassword = getEnv("RELAY_REDIS_PASSWORD", cfg.Dependencies.RedisPassword)
	cfg.Dependencies.RedisDB = getEnvInt("RELAY_REDIS_DB", cfg.Dependencies.RedisDB)
	cfg.Dependencies.CheckInterval = getEnvDuration("RELAY_DEP_CHECK_INTERVAL", cfg.Dependencies.CheckInterval)
	cfg.Dependencies.CheckTimeout = getEnvDuration("RELAY_DEP_CHECK_TIMEOUT", cfg.Dependencies.CheckTimeout)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.MetricsPort == "" {
		return fmt.Errorf("metrics port is required")
	}
	if c.Server.Port == c.Server.MetricsPort {
		return fmt.Errorf("server port and metrics port must be different")
	}
	if c.Server.ShutdownTimeout.Std() <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	if c.Dependencies.CheckInterval.Std() <= 0 {
		return fmt.Errorf("dependency check interval must be positive")
	}
	if c.Dependencies.CheckTimeout.Std() <= 0 {
		return fmt.Errorf("dependency check timeout must be positive")
	}
	if c.Dependencies.CheckTimeout.Std() >= c.Dependencies.CheckInterval.Std() {
		return fmt.Errorf("dependency check timeout must be shorter than the check interval")
	}

	return nil
}

// LogLevel parses the configured log level string.
func (c *Config) LogLevel() observability.LogLevel {
	return ParseLogLevel(c.Observability.LogLevel)
}

// ParseLogLevel parses a log level string, defaulting to info.
func ParseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue Duration) Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return Duration(duration)
		}
	}
	return defaultValue
}
