package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/supplyline/supplyline/internal/observability"
	"github.com/supplyline/supplyline/jobs"
)

func newWorkerCommand() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Process background jobs and schedule the low-stock scan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorker(cmd.Context(), metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve job metrics on this address, e.g. :9091")
	return cmd
}

func runWorker(ctx context.Context, metricsAddr string) error {
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, logger := rt.cfg, rt.logger

	metrics := observability.NewMetrics()
	scan := jobs.NewLowStockScanJob(rt.services.Inventory, logger, metrics.Jobs(), cfg.LowStockThreshold)
	scheduled, err := jobs.NewLowStockScanTask(cfg.LowStockThreshold)
	if err != nil {
		return err
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLowStockScan, Handler: scan.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.LowStockCron, Task: scheduled, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		server := &http.Server{Addr: metricsAddr, Handler: mux}
		g.Go(func() error { return serveUntilDone(gctx, server, logger) })
	}
	return g.Wait()
}
