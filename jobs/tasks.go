package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan reports inventory items below the low-stock threshold.
	TaskLowStockScan = "inventory:low_stock_scan"
)

// LowStockScanPayload carries the threshold for one scan. Zero selects the
// job's configured default.
type LowStockScanPayload struct {
	Threshold int `json:"threshold"`
}

// NewLowStockScanTask constructs an Asynq task for the low-stock scan.
func NewLowStockScanTask(threshold int) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}
