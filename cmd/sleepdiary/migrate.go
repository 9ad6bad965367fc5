package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourname/sleepdiary/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, done, err := loadDeps()
			if err != nil {
				return err
			}
			defer done()

			if d.cfg.DatabaseBackend != "postgres" {
				return errors.New("migrate needs DATABASE_BACKEND=postgres")
			}
			if err := storage.MigratePostgres(cmd.Context(), d.cfg.PostgresDSN, d.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
