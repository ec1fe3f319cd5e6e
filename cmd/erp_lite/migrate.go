package main

import (
	"log/slog"

	"github.com/SscSPs/erp_lite/internal/app"
	"github.com/SscSPs/erp_lite/internal/platform/config"
	"github.com/SscSPs/erp_lite/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return runMigrations(cfg, app.NewLogger(cfg.LogLevel))
		},
	}
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
	return database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, logger)
}
