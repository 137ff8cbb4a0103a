package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/platform/db/dbtest"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/internal/suppliers"
)

type fixture struct {
	conn     *sql.DB
	service  *Service
	supplier suppliers.Supplier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	acme, err := suppliers.NewRepository(conn, db.SQLite).Create(context.Background(), suppliers.Supplier{
		Name: "Acme", ContactPerson: "Jo", Phone: "555", Email: "a@a.com", Address: "1 St", City: "X",
	})
	require.NoError(t, err)
	svc := NewService(NewRepository(conn, db.SQLite), slog.New(slog.DiscardHandler), ServiceConfig{})
	return fixture{conn: conn, service: svc, supplier: acme}
}

func TestSupplierPrecheckScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	widget, err := f.service.Create(ctx, Item{Name: "Widget", Quantity: 10, SupplierID: f.supplier.ID})
	require.NoError(t, err)
	assert.NotZero(t, widget.ID)

	ok, err := f.service.SupplierExists(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.service.Create(ctx, Item{Name: "Orphan", Quantity: 1, SupplierID: 9999})
	require.ErrorIs(t, err, shared.ErrValidation)
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "SupplierID")

	all, err := f.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Item{widget}, all)
}

func TestForeignKeyBacksThePrecheck(t *testing.T) {
	f := newFixture(t)
	repo := NewRepository(f.conn, db.SQLite)

	_, err := repo.Create(context.Background(), Item{Name: "Orphan", Quantity: 1, SupplierID: 9999})
	require.ErrorIs(t, err, db.ErrConstraint)
	assert.True(t, db.IsForeignKey(err))
}

func TestUpdateChecksSupplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget, err := f.service.Create(ctx, Item{Name: "Widget", Quantity: 10, SupplierID: f.supplier.ID})
	require.NoError(t, err)

	widget.SupplierID = 9999
	require.ErrorIs(t, f.service.Update(ctx, widget), shared.ErrValidation)

	widget.SupplierID = f.supplier.ID
	widget.Quantity = 3
	widget.Name = "Widget XL"
	require.NoError(t, f.service.Update(ctx, widget))
	got, err := f.service.Get(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, widget, got)

	widget.ID = 4242
	require.ErrorIs(t, f.service.Update(ctx, widget), shared.ErrNotFound)
}

func TestNegativeQuantityRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Create(context.Background(), Item{Name: "Widget", Quantity: -1, SupplierID: f.supplier.ID})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestLowStockIsStrict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, qty := range []int{0, 49, 50, 51, 200} {
		_, err := f.service.Create(ctx, Item{Name: fmt.Sprintf("item-%d", qty), Quantity: qty, SupplierID: f.supplier.ID})
		require.NoError(t, err)
	}

	low, err := f.service.LowStock(ctx, 50)
	require.NoError(t, err)
	require.Len(t, low, 2)
	for _, it := range low {
		assert.Less(t, it.Quantity, 50)
	}

	defaulted, err := f.service.LowStock(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, low, defaulted)

	none, err := f.service.LowStock(ctx, 1)
	require.NoError(t, err)
	require.Len(t, none, 1)
	assert.Zero(t, none[0].Quantity)

	all, err := f.service.LowStock(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSearchBySupplierIDAsText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Create(ctx, Item{Name: "Bolt", Quantity: 5, SupplierID: f.supplier.ID})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, Item{Name: "Nut", Quantity: 5, SupplierID: f.supplier.ID})
	require.NoError(t, err)

	got, err := f.service.Search(ctx, fmt.Sprint(f.supplier.ID))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.service.Search(ctx, "bol")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bolt", got[0].Name)
}

func TestPagesReconstructList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		_, err := f.service.Create(ctx, Item{Name: fmt.Sprintf("item-%02d", i), Quantity: i, SupplierID: f.supplier.ID})
		require.NoError(t, err)
	}
	all, err := f.service.List(ctx)
	require.NoError(t, err)

	var joined []Item
	for page := 1; ; page++ {
		p, err := f.service.ListPage(ctx, page, 10)
		require.NoError(t, err)
		if len(p.Items) == 0 {
			break
		}
		assert.Equal(t, 3, p.Pagination.TotalPages)
		joined = append(joined, p.Items...)
	}
	assert.Equal(t, all, joined)
}

type failingRepo struct {
	RepositoryPort
	err error
}

func (r failingRepo) SupplierExists(context.Context, int64) (bool, error) {
	return false, r.err
}

func TestSupplierLookupErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(failingRepo{err: boom}, nil, ServiceConfig{LowStockThreshold: 5})
	assert.Equal(t, 5, svc.Threshold())

	_, err := svc.Create(context.Background(), Item{Name: "Widget", Quantity: 1, SupplierID: 1})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, shared.ErrValidation)
}

func TestHandlerLowStockAndCreate(t *testing.T) {
	f := newFixture(t)
	r := chi.NewRouter()
	r.Route("/inventory", NewHandler(nil, f.service, 0).MountRoutes)

	body := fmt.Sprintf(`{"name":"Widget","quantity":10,"supplier_id":%d}`, f.supplier.ID)
	req := httptest.NewRequest(http.MethodPost, "/inventory/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/inventory/", strings.NewReader(`{"name":"Orphan","quantity":1,"supplier_id":9999}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/inventory/low-stock", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var low lowStockResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&low))
	assert.Equal(t, DefaultLowStockThreshold, low.Threshold)
	require.Len(t, low.Items, 1)

	req = httptest.NewRequest(http.MethodGet, "/inventory/low-stock?threshold=10", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&low))
	assert.Empty(t, low.Items)
}

func TestHandlerUpdateReturnsStoredItem(t *testing.T) {
	f := newFixture(t)
	r := chi.NewRouter()
	r.Route("/inventory", NewHandler(nil, f.service, 0).MountRoutes)

	item, err := f.service.Create(context.Background(), Item{Name: "Widget", Quantity: 5, SupplierID: f.supplier.ID})
	require.NoError(t, err)

	body := fmt.Sprintf(`{"name":"  Widget XL ","quantity":7,"supplier_id":%d}`, f.supplier.ID)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/inventory/%d", item.ID), strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, Item{ID: item.ID, Name: "Widget XL", Quantity: 7, SupplierID: f.supplier.ID}, got)
}
