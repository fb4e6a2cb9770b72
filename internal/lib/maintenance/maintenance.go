// Package maintenance runs scheduled upkeep against the SQLite database.
//
// SQLite in WAL mode needs two kinds of periodic care that a server
// process must do itself (there is no external DBA process for an
// embedded database):
//   - WAL checkpoints, so the write-ahead log does not grow unbounded
//   - VACUUM, so deleted rows eventually return space to the filesystem
//
// The service owns a cron scheduler; the server starts it after the
// database is ready and stops it during shutdown.
package maintenance

import (
	"database/sql"
	"fmt"
	"time"

	"personscrud/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Service schedules database upkeep jobs.
type Service struct {
	cron   *cron.Cron
	db     *sql.DB
	cfg    *config.MaintenanceConfig
	logger *zerolog.Logger
}

// New constructs the maintenance service. Nothing is scheduled until
// Start is called.
func New(cfg *config.Config, logger *zerolog.Logger, db *sql.DB) *Service {
	return &Service{
		cron:   cron.New(),
		db:     db,
		cfg:    &cfg.Maintenance,
		logger: logger,
	}
}

// Start registers the configured jobs and starts the scheduler.
// When maintenance is disabled, Start is a no-op.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("database maintenance disabled")
		return nil
	}

	if s.cfg.CheckpointSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.CheckpointSchedule, s.checkpoint); err != nil {
			return fmt.Errorf("invalid checkpoint schedule %q: %w", s.cfg.CheckpointSchedule, err)
		}
	}

	if s.cfg.VacuumSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.VacuumSchedule, s.vacuum); err != nil {
			return fmt.Errorf("invalid vacuum schedule %q: %w", s.cfg.VacuumSchedule, err)
		}
	}

	s.cron.Start()
	s.logger.Info().
		Str("checkpoint", s.cfg.CheckpointSchedule).
		Str("vacuum", s.cfg.VacuumSchedule).
		Msg("database maintenance scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("database maintenance scheduler stopped")
}

// checkpoint truncates the write-ahead log. TRUNCATE mode also resets
// the WAL file to zero bytes when no reader holds it open.
func (s *Service) checkpoint() {
	start := time.Now()
	if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		s.logger.Error().Err(err).Msg("wal checkpoint failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("wal checkpoint completed")
}

// vacuum rebuilds the database file, reclaiming space freed by deletes.
func (s *Service) vacuum() {
	start := time.Now()
	if _, err := s.db.Exec(`VACUUM`); err != nil {
		s.logger.Error().Err(err).Msg("vacuum failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("vacuum completed")
}
