// Package main is the entry point for the nanocell simulation service.
// It exposes the cellular reprogramming and nanobot delivery models over
// a REST API, persists completed runs to SQLite, and prunes old run
// history on a daily schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/openquantum/nanocell/internal/config"
	"github.com/openquantum/nanocell/internal/database"
	"github.com/openquantum/nanocell/internal/modules/nanobot"
	"github.com/openquantum/nanocell/internal/modules/reprogramming"
	"github.com/openquantum/nanocell/internal/modules/runs"
	"github.com/openquantum/nanocell/internal/scheduler"
	"github.com/openquantum/nanocell/internal/server"
	"github.com/openquantum/nanocell/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting nanocell")

	// Run history database
	runsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "runs.db"),
		Profile: database.ProfileStandard,
		Name:    "runs",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open runs database")
	}
	defer runsDB.Close()

	runsRepo := runs.NewRepository(runsDB.Conn(), log)
	if err := runsRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize runs schema")
	}
	runsService := runs.NewService(runsRepo, log)

	// Simulation services
	reprogrammingService := reprogramming.NewService(cfg.DefaultShots, log)
	nanobotService := nanobot.NewService(cfg.MaxDeliverySteps, log)

	// Retention scheduler prunes run history daily
	sched := scheduler.New(log)
	retentionJob := scheduler.NewRetentionJob(runsService, cfg.RetentionDays, log)
	if err := sched.AddJob("@daily", retentionJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register retention job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Port:          cfg.Port,
		Log:           log,
		RunsDB:        runsDB,
		Config:        cfg,
		Reprogramming: reprogrammingService,
		Nanobots:      nanobotService,
		Runs:          runsService,
		DevMode:       cfg.DevMode,
	})

	// Start server in goroutine so signal handling stays on the main thread
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// The HTTP server gets up to 10 seconds to finish in-flight requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
