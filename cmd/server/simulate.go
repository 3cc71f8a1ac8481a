package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labelpulse-api/internal/logging"
	"labelpulse-api/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func simulateCmd() *cobra.Command {
	var (
		interval time.Duration
		out      string
		count    int
		seed     int64
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Rewrite the live telemetry file on an interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.Config{Level: logLevel, Format: "console"})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			sim := services.NewTelemetrySimulator(out, interval, seed)

			log.Info().Str("path", out).Dur("interval", interval).Msg("telemetry simulator started")
			err := sim.Run(ctx, count)
			if errors.Is(err, context.Canceled) {
				log.Info().Msg("telemetry simulator stopped")
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 3*time.Second, "time between snapshots")
	cmd.Flags().StringVar(&out, "out", "data.json", "telemetry file to rewrite")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many snapshots, 0 runs until interrupted")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}
