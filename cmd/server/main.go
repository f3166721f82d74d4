package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/statichead/rabbitears/internal/config"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/logger"
	"github.com/statichead/rabbitears/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet, write straight to stderr
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	logger.Log.Info().
		Str("log_level", cfg.Logging.Level).
		Str("database", cfg.Database.Path).
		Msg("Starting rabbitears")

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to get database handle")
	}

	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Log.Info().Msg("Database migrations applied")

	srv := server.New(cfg, database)

	// Run the server in a goroutine so signal handling stays on main
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Log.Fatal().Err(err).Msg("Server failed")
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}
}
