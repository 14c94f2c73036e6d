package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sorekai/livetrack/internal/cache"
	"github.com/sorekai/livetrack/internal/config"
	"github.com/sorekai/livetrack/internal/db"
	"github.com/sorekai/livetrack/internal/logger"
	"github.com/sorekai/livetrack/internal/render"
	"github.com/sorekai/livetrack/internal/scheduler"
	"github.com/sorekai/livetrack/internal/server"
	"github.com/sorekai/livetrack/internal/telemetry"
	"github.com/sorekai/livetrack/internal/tracker"
	"github.com/sorekai/livetrack/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	telemetry.Init()

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to access database connection")
	}
	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	repos := db.NewRepositories(database)

	ctx := context.Background()

	gateway, err := upstream.NewYouTube(ctx, cfg.YouTube.APIKey)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create upstream gateway")
	}

	renderer := render.New(repos.Videos, repos.Channels, cfg.Tracker.Channels)
	pages := cache.New(renderer, repos.Channels)
	service := tracker.New(repos, gateway, pages, cfg.Tracker.Channels)

	// The scheduled jobs assume a populated channel set and warm caches;
	// refusing to start on a failed bootstrap beats serving empty pages.
	if err := service.Bootstrap(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to bootstrap tracked channels")
	}

	sched, err := scheduler.New(cfg.Tracker, service)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	sched.Start()

	srv := server.New(cfg, database, pages)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Log.Error().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
