package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/supplyline/supplyline/internal/app"
	"github.com/supplyline/supplyline/internal/auth"
	"github.com/supplyline/supplyline/internal/observability"
	"github.com/supplyline/supplyline/internal/platform/cache"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/jobs"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, logger := rt.cfg, rt.logger

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessions := shared.NewSessionManager(redisClient, "supplyline_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrf := shared.NewCSRFManager(cfg.CSRFSecret)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("asynq inspector close", slog.Any("error", err))
		}
	}()

	params := rt.services.Handlers(cfg, logger)
	params.SessionManager = sessions
	params.CSRFManager = csrf
	params.AuthHandler = auth.NewHandler(logger, rt.services.Auth, sessions, csrf)
	params.JobHandler = jobs.NewHandler(inspector, logger)
	params.Metrics = observability.NewMetrics()
	if err := params.Metrics.WatchEntities(map[string]observability.Counter{
		"supplier":  rt.services.Suppliers,
		"inventory": rt.services.Inventory,
	}); err != nil {
		return fmt.Errorf("register entity metrics: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      app.NewRouter(params),
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}
	return serveUntilDone(ctx, server, logger)
}

// serveUntilDone runs server until ctx ends, then drains it.
func serveUntilDone(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.String("addr", server.Addr))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
