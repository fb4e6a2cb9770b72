// Package database establishes the connection to the SQLite database.
//
// It handles:
//   - building the DSN from config (journal mode, busy timeout, pragmas)
//   - tuning the database/sql pool
//   - verifying connectivity at startup
//   - running embedded schema migrations (see migrator.go)
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"personscrud/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Database wraps the shared *sql.DB handle and a logger for lifecycle
// logs (connect/close).
type Database struct {
	DB  *sql.DB
	log *zerolog.Logger
}

// DatabasePingTimeout is the number of seconds to wait for the startup
// ping before considering the database unreachable.
const DatabasePingTimeout = 10

// DSN builds the go-sqlite3 connection string for the configured
// database file.
//
// Pragmas applied on every connection:
//   - WAL journal mode, so readers don't block the writer
//   - busy timeout, so concurrent writes wait instead of failing
//   - foreign keys on (off by default in SQLite)
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on",
		url.PathEscape(cfg.Path),
		cfg.BusyTimeout,
	)
}

// New opens the SQLite database and verifies connectivity.
//
// The database file is created on first open when missing. The pool is
// tuned from config; the default of five open connections mirrors the
// pool size the service has always run with.
func New(cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	db, err := sql.Open("sqlite3", DSN(&cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second)

	database := &Database{
		DB:  db,
		log: logger,
	}

	// Ping with a timeout so startup fails fast when the file is not
	// writable or the directory is missing.
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to the database")

	return database, nil
}

// Close closes the database connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	return db.DB.Close()
}
