package commands

import (
	"fmt"
	"log/slog"

	"github.com/bensuskins/family-meals/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if status {
				pending, err := database.Pending(ctx, db)
				if err != nil {
					return err
				}
				for _, migration := range pending {
					fmt.Fprintf(cmd.OutOrStdout(), "pending %03d %s\n", migration.Version, migration.Filename)
				}
				if len(pending) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "up to date")
				}
				return nil
			}

			applied, err := database.Migrate(ctx, db)
			if err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			slog.Info("migrations applied", "count", applied, "database", cfg.DatabasePath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "list pending migrations without applying them")

	return cmd
}
