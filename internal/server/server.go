// Package server defines the core Server struct that composes the app's
// main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger
//   - database handle
//   - background maintenance scheduler
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the
// application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"personscrud/internal/config"
	"personscrud/internal/database"
	"personscrud/internal/lib/maintenance"

	"github.com/rs/zerolog"
)

// Server is the application container that holds shared resources. It
// is not the HTTP server itself; the internal *http.Server is configured
// in SetupHTTPServer and started in Start.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// DB holds the SQLite handle wrapper.
	DB *database.Database

	// Maintenance runs the scheduled database upkeep jobs.
	Maintenance *maintenance.Service

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// Initialization performed:
//   - open and ping the SQLite database
//   - construct and start the maintenance scheduler
//
// A maintenance start failure blocks startup: it only fails on an
// invalid cron expression, which is a configuration bug.
func New(cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	maintenanceService := maintenance.New(cfg, logger, db.DB)
	if err := maintenanceService.Start(); err != nil {
		return nil, err
	}

	return &Server{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Maintenance: maintenanceService,
	}, nil
}

// SetupHTTPServer configures the internal net/http server with the
// given handler (the assembled echo router).
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Timeouts protect against slow clients holding connections.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It requires SetupHTTPServer to be called
// first and blocks until the server stops or errors.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies:
// stop accepting connections and drain in-flight requests until the
// context deadline, stop the maintenance scheduler, close the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Maintenance != nil {
		s.Maintenance.Stop()
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
