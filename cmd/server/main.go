package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := serveCmd()

	root := &cobra.Command{
		Use:           "server",
		Short:         "LabelPulse release intelligence API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE, // serve is the default
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(simulateCmd())
	root.AddCommand(seedCmd())
	return root
}
