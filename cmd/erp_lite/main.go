package main

import (
	"fmt"
	"os"

	"github.com/SscSPs/erp_lite/internal/app"
	"github.com/SscSPs/erp_lite/internal/platform/config"
	"github.com/spf13/cobra"
)

// @title ERP Lite Documents API
// @version 1.0
// @description Quotes, invoices and the conversion between them.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "erp_lite",
		Short:         "Quote and invoice backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newWorkerCmd(), newMigrateCmd(), newSweepCmd())
	return root
}

// loadApp reads the configuration and builds the shared dependencies, optionally migrating first.
func loadApp(cmd *cobra.Command, migrateFirst bool) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := app.NewLogger(cfg.LogLevel)

	if migrateFirst {
		if err := runMigrations(cfg, logger); err != nil {
			return nil, err
		}
	}

	return app.New(cmd.Context(), cfg, logger)
}
