package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyline/supplyline/internal/inventory"
	jobmetrics "github.com/supplyline/supplyline/internal/jobs"
)

type fakeSource struct {
	items     []inventory.Item
	err       error
	threshold int
}

func (f *fakeSource) LowStock(_ context.Context, threshold int) ([]inventory.Item, error) {
	f.threshold = threshold
	if f.err != nil {
		return nil, f.err
	}
	var out []inventory.Item
	for _, it := range f.items {
		if it.Quantity < threshold {
			out = append(out, it)
		}
	}
	return out, nil
}

func newSource() *fakeSource {
	return &fakeSource{items: []inventory.Item{
		{ID: 1, Name: "Widget", Quantity: 3, SupplierID: 1},
		{ID: 2, Name: "Gadget", Quantity: 80, SupplierID: 1},
		{ID: 3, Name: "Gizmo", Quantity: 49, SupplierID: 2},
	}}
}

func TestLowStockScanUsesPayloadThreshold(t *testing.T) {
	src := newSource()
	job := NewLowStockScanJob(src, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()), 50)

	task, err := NewLowStockScanTask(10)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 10, src.threshold)
}

func TestLowStockScanFallsBackToConfiguredThreshold(t *testing.T) {
	src := newSource()
	job := NewLowStockScanJob(src, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()), 50)

	items, err := job.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 50, src.threshold)
	assert.Len(t, items, 2)

	job.Threshold = 0
	_, err = job.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, inventory.DefaultLowStockThreshold, src.threshold)
}

func TestLowStockScanPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	job := NewLowStockScanJob(&fakeSource{err: boom}, nil, nil, 50)

	err := job.Handle(context.Background(), asynq.NewTask(TaskLowStockScan, nil))
	require.ErrorIs(t, err, boom)
}

func TestLowStockScanRejectsBadPayload(t *testing.T) {
	job := NewLowStockScanJob(newSource(), nil, nil, 50)
	err := job.Handle(context.Background(), asynq.NewTask(TaskLowStockScan, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewLowStockScanTaskPayload(t *testing.T) {
	task, err := NewLowStockScanTask(25)
	require.NoError(t, err)
	assert.Equal(t, TaskLowStockScan, task.Type())

	var payload LowStockScanPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 25, payload.Threshold)
}

func TestServeMuxDispatchesLowStockScan(t *testing.T) {
	src := newSource()
	job := NewLowStockScanJob(src, nil, nil, 50)
	mux := NewServeMux([]TaskHandler{{Type: TaskLowStockScan, Handler: job.Handle}, {Type: "ignored"}})

	task, err := NewLowStockScanTask(5)
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, 5, src.threshold)
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, nil).MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}
