package main

import (
	"github.com/spf13/cobra"

	"github.com/joestump/catalog-core/internal/config"
	"github.com/joestump/catalog-core/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := cfg.NewLogger()

			database, err := db.Open(cmd.Context(), cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			log.WithField("driver", cfg.DB.Driver).Info("migrations complete")
			return nil
		},
	}
}
