package main

import (
	"errors"
	"math/rand"
	"time"

	"labelpulse-api/internal/logging"
	"labelpulse-api/internal/models"
	"labelpulse-api/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var (
		out         string
		customers   int
		competitors int
		seed        int64
		demo        bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a database document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.Config{Level: "info", Format: "console"})

			if customers < 0 || competitors < 0 {
				return errors.New("customers and competitors must not be negative")
			}

			var db *models.Database
			if demo {
				db = services.DemoDatabase()
			} else {
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
				db = services.RandomDatabase(rand.New(rand.NewSource(seed)), competitors, customers)
			}

			if err := services.WriteDatabase(out, db); err != nil {
				return err
			}
			log.Info().
				Str("path", out).
				Int("releases", len(db.Releases)).
				Int("customers", len(db.Customers)).
				Int("competitors", len(db.Competitors)).
				Msg("database written")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "database.json", "database file to write")
	cmd.Flags().IntVar(&customers, "customers", 500, "number of synthetic customers")
	cmd.Flags().IntVar(&competitors, "competitors", 50, "number of synthetic competitors")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	cmd.Flags().BoolVar(&demo, "demo", false, "write the small demo document instead")
	return cmd
}
