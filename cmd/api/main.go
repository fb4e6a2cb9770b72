// Command api runs the persons CRUD HTTP service.
//
// Startup order: config, logger, database (with migrations), the
// application container, then the repository/service/handler/middleware
// layers, and finally the HTTP server. SIGINT/SIGTERM trigger a
// graceful shutdown with a bounded drain period.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personscrud/internal/config"
	"personscrud/internal/database"
	"personscrud/internal/handler"
	loggerPkg "personscrud/internal/logger"
	"personscrud/internal/middleware"
	"personscrud/internal/repository"
	"personscrud/internal/router"
	"personscrud/internal/server"
	"personscrud/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.New()
	if err != nil {
		// config.New logs fatally on its own failures; this guards the
		// contract anyway.
		os.Exit(1)
	}

	logger := loggerPkg.New(cfg)

	s, err := server.New(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize server")
	}

	// Bring the schema up to date before accepting traffic.
	if err := database.Migrate(context.Background(), &logger, s.DB.DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to run database migrations")
	}

	repos := repository.NewRepositories(s)

	services, err := service.NewServices(s, repos)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize services")
	}

	handlers := handler.NewHandlers(s, services)
	middlewares := middleware.NewMiddlewares(s)

	e := router.New(s, handlers, middlewares)
	s.SetupHTTPServer(e)

	// Run the server in the background; the main goroutine waits for a
	// termination signal.
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server failed")
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}

	logger.Info().Msg("server stopped")
}
