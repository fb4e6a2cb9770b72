package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Embed all SQL files under migrations/ at compile time, so the binary
// carries its schema with it and does not depend on the filesystem at
// runtime.
//
//go:embed migrations/*.sql
var migrations embed.FS

// migration is a single schema migration, parsed from an embedded file
// named "<version>_<name>.sql" (e.g. "0001_create_person_table.sql").
type migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrate brings the database schema up to the latest embedded version.
//
// The applied version is tracked in a single-row schema_version table.
// Each pending migration runs inside its own transaction together with
// the version bump, so a failed migration leaves the schema at the last
// good version.
func Migrate(ctx context.Context, logger *zerolog.Logger, db *sql.DB) error {
	ms, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	from, err := currentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	applied := 0
	for _, m := range ms {
		if m.Version <= from {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("applying migration %d (%s): %w", m.Version, m.Name, err)
		}
		applied++
	}

	if applied == 0 {
		logger.Info().Msgf("database schema up to date, version %d", from)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, ms[len(ms)-1].Version)
	}
	return nil
}

// loadMigrations parses the embedded migration files and returns them
// ordered by version. Duplicate or unparseable versions are rejected so
// a bad filename fails loudly at startup, not silently in production.
func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]string, len(entries))
	ms := make([]migration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".sql")
		prefix, rest, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration filename %q must look like <version>_<name>.sql", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration filename %q has a non-numeric version: %w", name, err)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d (%q and %q)", version, prev, name)
		}
		seen[version] = name

		body, err := fs.ReadFile(migrations, "migrations/"+name)
		if err != nil {
			return nil, err
		}

		ms = append(ms, migration{
			Version: version,
			Name:    rest,
			SQL:     string(body),
		})
	}

	sort.Slice(ms, func(i, j int) bool { return ms[i].Version < ms[j].Version })
	return ms, nil
}

// currentVersion reads the applied schema version, initializing the
// version row to zero on a fresh database.
func currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return version, err
}

// applyMigration runs one migration and records its version in a single
// transaction.
func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE schema_version SET version = ?`, m.Version); err != nil {
		return err
	}
	return tx.Commit()
}
