// Package cli holds the supplyline command tree: the HTTP server, the job
// worker and operator helpers that act on the same database.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/supplyline/supplyline/internal/app"
	"github.com/supplyline/supplyline/internal/platform/db"
)

// NewRootCommand assembles every subcommand.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "supplyline",
		Short: "Supply chain records service",
		Long: `supplyline keeps suppliers, inventory, orders, shipments and payments.

Configuration is read from the environment (DB_DRIVER, PG_DSN, SQLITE_PATH,
REDIS_ADDR, SESSION_SECRET, CSRF_SECRET, LOW_STOCK_THRESHOLD, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newWorkerCommand())
	root.AddCommand(newUserCommand())
	root.AddCommand(newLowStockCommand())
	root.AddCommand(newSeedCommand())
	return root
}

// runtime is the state every subcommand starts from.
type runtime struct {
	cfg      *app.Config
	logger   *slog.Logger
	handle   *db.Handle
	services *app.Services
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	handle, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if err := db.EnsureSchema(ctx, handle.DB, handle.Dialect); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &runtime{
		cfg:      cfg,
		logger:   logger,
		handle:   handle,
		services: app.NewServices(handle, cfg, logger),
	}, nil
}

func (rt *runtime) Close() {
	if err := rt.handle.Close(); err != nil {
		rt.logger.Warn("close database", slog.Any("error", err))
	}
}
