package inventory

import (
	"context"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/store"
	"github.com/supplyline/supplyline/internal/suppliers"
)

// Table is the storage name of inventory items.
const Table = "inventory"

var schema = store.Schema[Item]{
	Table:   Table,
	Key:     "item_id",
	Columns: []string{"item_name", "quantity", "supplier_id"},
	Search:  []string{"item_name", "supplier_id"},
	Scan: func(s store.Scanner) (Item, error) {
		var rec Item
		err := s.Scan(&rec.ID, &rec.Name, &rec.Quantity, &rec.SupplierID)
		return rec, err
	},
	Values: func(rec Item) []any { return []any{rec.Name, rec.Quantity, rec.SupplierID} },
	ID:     func(rec Item) int64 { return rec.ID },
	SetID:  func(rec *Item, id int64) { rec.ID = id },
}

// Repository persists inventory items.
type Repository struct {
	q       store.Querier
	dialect db.Dialect
	table   *store.Table[Item]
}

// NewRepository builds a Repository over q.
func NewRepository(q store.Querier, dialect db.Dialect) *Repository {
	return &Repository{q: q, dialect: dialect, table: store.NewTable(q, dialect, schema)}
}

// Create inserts rec and returns it with its generated identity.
func (r *Repository) Create(ctx context.Context, rec Item) (Item, error) {
	return r.table.Insert(ctx, rec)
}

// List returns all items in identity order.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	return r.table.List(ctx)
}

// Get returns a single item.
func (r *Repository) Get(ctx context.Context, id int64) (Item, error) {
	return r.table.Get(ctx, id)
}

// Update replaces every field of the item identified by rec.ID.
func (r *Repository) Update(ctx context.Context, rec Item) error {
	return r.table.Update(ctx, rec)
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

// Search matches term against the item name and the supplier id as text.
func (r *Repository) Search(ctx context.Context, term string) ([]Item, error) {
	return r.table.Search(ctx, term)
}

// Count returns the number of items.
func (r *Repository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}

// Page returns one 1-based page of items.
func (r *Repository) Page(ctx context.Context, page, size int) ([]Item, error) {
	return r.table.Page(ctx, page, size)
}

// LowStock returns items whose quantity is strictly below threshold.
func (r *Repository) LowStock(ctx context.Context, threshold int) ([]Item, error) {
	return r.table.Where(ctx, "quantity < ?", threshold)
}

// SupplierExists reports whether the supplier row exists.
func (r *Repository) SupplierExists(ctx context.Context, supplierID int64) (bool, error) {
	return store.Exists(ctx, r.q, r.dialect, suppliers.Table, "supplier_id", supplierID)
}
