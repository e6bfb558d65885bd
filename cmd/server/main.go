package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ensdash/ensdash-backend/internal/config"
	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/handler"
	"github.com/ensdash/ensdash-backend/internal/logger"
	"github.com/ensdash/ensdash-backend/internal/router"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/ensdash/ensdash-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("data_file", cfg.DataFile).
		Msg("Starting Ensemble Dashboard Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Load Snapshot ─────────────────────────────────────────────────
	// The data file is loaded once and memoized; every request computes
	// from this immutable in-memory snapshot.
	store := dataset.NewStore(cfg.DataFile, log)
	if err := store.Open(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load ensemble data")
	}

	roster, err := dataset.LoadContracts(cfg.ContractsFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load faculty contracts")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	ensembleService := service.NewEnsembleService(store, roster)
	analyticsService := service.NewAnalyticsService()
	classifierService := service.NewClassifierService()
	priorityService := service.NewPriorityService(roster)
	exportService := service.NewExportService(cfg.ExportPrefix)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Dashboard: handler.NewDashboardHandler(store, ensembleService, analyticsService),
		Ensemble:  handler.NewEnsembleHandler(ensembleService, analyticsService),
		Alert:     handler.NewAlertHandler(ensembleService, classifierService),
		Priority:  handler.NewPriorityHandler(ensembleService, priorityService),
		Export:    handler.NewExportHandler(ensembleService, classifierService, priorityService, exportService, log),
		Media:     handler.NewMediaHandler(mediaService),
		System:    handler.NewSystemHandler(store, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
