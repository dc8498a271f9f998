package main

import (
	"github.com/spf13/cobra"

	"github.com/shelfkeep/library-api/internal/infrastructure/db/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			db, err := postgres.Open(postgresConfig(cfg.Postgres))
			if err != nil {
				return err
			}
			defer db.Close()

			return postgres.Migrate(cmd.Context(), db.DB, log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied/pending state of every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			db, err := postgres.Open(postgresConfig(cfg.Postgres))
			if err != nil {
				return err
			}
			defer db.Close()

			return postgres.MigrationStatus(cmd.Context(), db.DB, log)
		},
	})

	return cmd
}
