package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups configuration related to runtime visibility:
// structured logging and periodic dependency health checks.
//
// It is optional at the root level (pointer in Config); when omitted,
// defaults are injected.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs. It is forced to
	// "persons-crud" during load so nobody configures it into chaos.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment labels telemetry by environment (local, production...).
	Environment string `koanf:"environment" validate:"required"`

	// Logging controls structured logger behavior.
	Logging LoggingConfig `koanf:"logging" validate:"required"`

	// HealthChecks controls periodic dependency health checks.
	HealthChecks HealthChecksConfig `koanf:"health_checks" validate:"required"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level" validate:"required"`

	// Format selects the output format: "json" or "console".
	Format string `koanf:"format" validate:"required"`

	// SlowQueryThreshold is the duration beyond which a query is logged
	// as slow. Supplied as a parseable duration string ("100ms", "1s").
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// HealthChecksConfig controls periodic checks for dependencies.
type HealthChecksConfig struct {
	// Enabled toggles health checking entirely.
	Enabled bool `koanf:"enabled"`

	// Interval is how frequently checks run.
	Interval time.Duration `koanf:"interval" validate:"min=1s"`

	// Timeout is the max time allowed per check run.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// Checks lists the check names to run. Only "database" is meaningful
	// for this service.
	Checks []string `koanf:"checks"`
}

// DefaultObservabilityConfig provides the defaults used when the
// observability block is absent from the environment.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "persons-crud",
		Environment: "local",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		HealthChecks: HealthChecksConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
			Timeout:  5 * time.Second,
			Checks:   []string{"database"},
		},
	}
}

// Validate applies constraints that go beyond struct tags: enum checks
// and cross-field rules.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (must be json or console)", c.Logging.Format)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level, defaulting by environment
// when no level is configured: info in production, debug elsewhere.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level == "" {
		if c.IsProduction() {
			return "info"
		}
		return "debug"
	}
	return c.Logging.Level
}

// IsProduction reports whether the application runs in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
