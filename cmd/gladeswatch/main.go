// Command gladeswatch runs the airport activity monitor: the HTTP
// API, the background job workers, and the poll scheduler.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gladeswatch/backend/internal/config"
	"github.com/gladeswatch/backend/internal/database"
	"github.com/gladeswatch/backend/internal/handler"
	"github.com/gladeswatch/backend/internal/lib/job"
	"github.com/gladeswatch/backend/internal/logger"
	"github.com/gladeswatch/backend/internal/middleware"
	"github.com/gladeswatch/backend/internal/repository"
	"github.com/gladeswatch/backend/internal/router"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/gladeswatch/backend/internal/service"
)

// shutdownTimeout bounds how long graceful shutdown may take.
const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// config.Load logs fatally on its own; this is a safety net.
		os.Exit(1)
	}

	log, loggerService, err := logger.New(cfg)
	if err != nil {
		os.Exit(1)
	}

	ctx := context.Background()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	// Job handlers need the service layer, which needs the server that
	// owns the JobService; wire them here, then start the workers.
	job.InitHandlers(cfg, log,
		services.Monitor.Poll,
		func(ctx context.Context, payload job.BackfillPayload) (int, error) {
			return services.Backfill.Backfill(ctx, payload.From, payload.To)
		},
		services.Digest.DailyCounts,
	)

	if err := srv.Job.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start job server")
	}

	if err := srv.Job.StartScheduler(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to start poll scheduler")
	}

	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv)

	e := router.New(srv, handlers, middlewares)
	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}()

	// Block until SIGINT/SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	if err := services.Backfill.Close(); err != nil {
		log.Error().Err(err).Msg("closing warehouse client")
	}

	if loggerService != nil {
		loggerService.Shutdown(10 * time.Second)
	}

	log.Info().Msg("shutdown complete")
}
