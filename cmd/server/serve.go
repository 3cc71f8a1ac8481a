package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labelpulse-api/internal/config"
	"labelpulse-api/internal/handlers"
	"labelpulse-api/internal/logging"
	"labelpulse-api/internal/metrics"
	"labelpulse-api/internal/services"
	"labelpulse-api/pkg/gemini"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var profileMode string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch profileMode {
			case "":
			case "cpu":
				defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
			case "mem":
				defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
			default:
				return fmt.Errorf("unknown profile mode %q, want cpu or mem", profileMode)
			}
			return serve()
		},
	}
	cmd.Flags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the working directory")
	return cmd
}

func serve() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if !cfg.AIEnabled() {
		log.Warn().Msg("GEMINI_API_KEY is not set, marketing and chat will return placeholders")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	reg := metrics.New()
	catalog := services.NewCatalogService(cfg)
	cacheService := services.NewCacheService(ctx, cfg, reg)
	defer cacheService.Close()

	generator := gemini.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, cfg.AI.Timeout)

	app := handlers.NewApp(cfg, &handlers.Services{
		Catalog:   catalog,
		Forecasts: services.NewForecastService(catalog, reg),
		Segments:  services.NewSegmentService(catalog),
		Narrative: services.NewNarrativeService(cfg, generator, cacheService, reg),
		Metrics:   reg,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("environment", cfg.Environment).
		Str("database", cfg.DatabasePath).
		Str("cache", cfg.Cache.Backend).
		Msg("LabelPulse API started")

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server shutdown complete")
	return nil
}
