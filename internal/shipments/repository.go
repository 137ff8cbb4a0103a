package shipments

import (
	"context"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/store"
)

// Table is the storage name of shipments.
const Table = "shipment"

var schema = store.Schema[Shipment]{
	Table:   Table,
	Key:     "shipment_id",
	Columns: []string{"order_id", "shipment_date", "delivery_date", "status"},
	Search:  []string{"status"},
	Scan: func(s store.Scanner) (Shipment, error) {
		var rec Shipment
		err := s.Scan(&rec.ID, &rec.OrderID, &rec.ShipmentDate, &rec.DeliveryDate, &rec.Status)
		return rec, err
	},
	Values: func(rec Shipment) []any {
		return []any{rec.OrderID, rec.ShipmentDate, rec.DeliveryDate, rec.Status}
	},
	ID:    func(rec Shipment) int64 { return rec.ID },
	SetID: func(rec *Shipment, id int64) { rec.ID = id },
}

// Repository persists shipments.
type Repository struct {
	table *store.Table[Shipment]
}

// NewRepository builds a Repository over q.
func NewRepository(q store.Querier, dialect db.Dialect) *Repository {
	return &Repository{table: store.NewTable(q, dialect, schema)}
}

// Create inserts rec and returns it with its generated identity.
func (r *Repository) Create(ctx context.Context, rec Shipment) (Shipment, error) {
	return r.table.Insert(ctx, rec)
}

// List returns all shipments in identity order.
func (r *Repository) List(ctx context.Context) ([]Shipment, error) {
	return r.table.List(ctx)
}

// Get returns a single shipment.
func (r *Repository) Get(ctx context.Context, id int64) (Shipment, error) {
	return r.table.Get(ctx, id)
}

// Update replaces every field of the shipment identified by rec.ID.
func (r *Repository) Update(ctx context.Context, rec Shipment) error {
	return r.table.Update(ctx, rec)
}

// Delete removes a shipment.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

// Search matches term against the shipment status.
func (r *Repository) Search(ctx context.Context, term string) ([]Shipment, error) {
	return r.table.Search(ctx, term)
}
