// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), maps them into structured Go types, and validates
// that required values are present so the app fails fast on bad config.
//
// Env vars use the PERSONS_ prefix and koanf's "." delimiter for
// nesting, e.g. PERSONS_SERVER.PORT -> Config.Server.Port. Every key has
// a default, so the binary runs with no configuration at all: port 3000,
// a persons.db file in the working directory, permissive CORS.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env
	// before any env vars are read, when such a file exists.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags control how env keys map onto fields; the
// `validate:"required"` tags enforce presence after defaults are applied.
// Observability is a pointer because the whole block is optional.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Maintenance   MaintenanceConfig    `koanf:"maintenance"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs and switch behavior (console vs JSON logging, etc.).
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained request rate per client IP
	// (requests/second); RateBurst is the burst allowance on top of it.
	RateLimit float64 `koanf:"rate_limit" validate:"required"`
	RateBurst int     `koanf:"rate_burst" validate:"required"`
}

// DatabaseConfig contains SQLite connection parameters and pool tuning.
//
// Path is the database file; it is created on first open when missing.
// BusyTimeout (milliseconds) bounds how long a connection waits on a
// locked database before giving up.
type DatabaseConfig struct {
	Path            string `koanf:"path" validate:"required"`
	BusyTimeout     int    `koanf:"busy_timeout" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// MaintenanceConfig controls the background SQLite upkeep scheduler.
//
// Schedules use cron syntax, including the "@every <duration>" and
// "@daily" descriptors.
type MaintenanceConfig struct {
	Enabled            bool   `koanf:"enabled"`
	CheckpointSchedule string `koanf:"checkpoint_schedule"`
	VacuumSchedule     string `koanf:"vacuum_schedule"`
}

// EnvPrefix is the prefix every configuration env var must carry.
const EnvPrefix = "PERSONS_"

// New loads configuration from environment variables, applies defaults,
// validates the result, and returns it.
//
// Flow:
//   - Seed the config struct with defaults.
//   - Load PERSONS_-prefixed env vars into koanf.
//   - Unmarshal over the defaults (env wins where present).
//   - Validate required fields and observability constraints.
//
// Any failure is fatal: a service with broken config should not start.
func New() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	// Only env vars with the PERSONS_ prefix are considered; the prefix
	// is stripped and the remainder lowercased, so PERSONS_SERVER.PORT
	// becomes the koanf key "server.port".
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load env variables")
	}

	// Unmarshal over the defaults: keys absent from the environment keep
	// their default values.
	mainConfig := defaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal config")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so logs stay consistently
	// tagged no matter what the environment says.
	mainConfig.Observability.ServiceName = "persons-crud"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// defaultConfig returns the configuration the binary runs with when no
// environment is provided. The values reproduce the original service's
// observable behavior: port 3000, persons.db in the working directory,
// a pool of five connections, permissive CORS.
func defaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "local",
		},
		Server: ServerConfig{
			Port:               "3000",
			ReadTimeout:        15,
			WriteTimeout:       15,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          50,
			RateBurst:          100,
		},
		Database: DatabaseConfig{
			Path:            "persons.db",
			BusyTimeout:     5000,
			MaxOpenConns:    5,
			MaxIdleConns:    5,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 600,
		},
		Maintenance: MaintenanceConfig{
			Enabled:            true,
			CheckpointSchedule: "@every 5m",
			VacuumSchedule:     "@daily",
		},
		Observability: DefaultObservabilityConfig(),
	}
}
