package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bensuskins/family-meals/internal/database"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/server"
	"github.com/bensuskins/family-meals/internal/services"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	authService, err := services.NewAuthService(ctx, cfg, repository.NewUserRepository(db))
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	return server.New(db, cfg, authService).Start(ctx)
}
