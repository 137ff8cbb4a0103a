package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/supplyline/supplyline/internal/inventory"
	jobmetrics "github.com/supplyline/supplyline/internal/jobs"
)

// LowStockSource lists inventory items below a threshold.
type LowStockSource interface {
	LowStock(ctx context.Context, threshold int) ([]inventory.Item, error)
}

// LowStockScanJob logs every item running low and publishes the count.
type LowStockScanJob struct {
	Source    LowStockSource
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Threshold int
}

// NewLowStockScanJob initialises the low-stock scan handler.
func NewLowStockScanJob(source LowStockSource, logger *slog.Logger, metrics *jobmetrics.Metrics, threshold int) *LowStockScanJob {
	return &LowStockScanJob{Source: source, Logger: logger, Metrics: metrics, Threshold: threshold}
}

// Handle executes one scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Source == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("low stock scan: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	_, err := j.Run(ctx, payload.Threshold)
	return err
}

// Run scans once and returns the items found below threshold.
func (j *LowStockScanJob) Run(ctx context.Context, threshold int) (items []inventory.Item, err error) {
	if threshold <= 0 {
		threshold = j.Threshold
	}
	if threshold <= 0 {
		threshold = inventory.DefaultLowStockThreshold
	}

	tracker := j.Metrics.Track(TaskLowStockScan)
	defer func() {
		err = tracker.End(err)
	}()

	start := time.Now()
	logger := j.logger().With(slog.Int("threshold", threshold))
	items, err = j.Source.LowStock(ctx, threshold)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return nil, err
	}

	for _, it := range items {
		logger.Warn("inventory item low on stock",
			slog.Int64("item_id", it.ID),
			slog.String("item_name", it.Name),
			slog.Int("quantity", it.Quantity),
			slog.Int64("supplier_id", it.SupplierID),
		)
	}
	j.Metrics.SetLowStock(len(items))
	logger.Info("completed low stock scan",
		slog.Int("items", len(items)),
		slog.Duration("duration", time.Since(start)),
	)
	return items, nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}
