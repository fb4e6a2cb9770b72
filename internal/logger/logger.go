// Package logger configures the application's structured logging.
//
// It uses zerolog. The main logger is built once from config and passed
// down through the server container; request-scoped child loggers are
// derived from it by the context enhancer middleware.
package logger

import (
	"os"

	"personscrud/internal/config"

	"github.com/rs/zerolog"
)

// New builds the application logger from config.
//
// Behavior:
//   - level comes from observability config (env-dependent default)
//   - "console" format writes human-friendly output, otherwise JSON
//   - every entry carries a timestamp and the service/env tags
func New(cfg *config.Config) zerolog.Logger {
	level := ParseLevel(cfg.Observability.GetLogLevel())

	var logger zerolog.Logger
	if cfg.Observability.Logging.Format == "console" || cfg.Primary.Env == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()
}

// ParseLevel maps a config level string onto a zerolog level.
// Unknown values fall back to info rather than failing startup.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
