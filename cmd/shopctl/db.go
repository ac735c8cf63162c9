package main

import (
	"fmt"

	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Create or update the tables of every model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := persistence.AutoMigrate(a.db); err != nil {
				return fmt.Errorf("sync schema: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d tables\n", len(persistence.SchemaModels()))
			return nil
		},
	})
	return cmd
}
