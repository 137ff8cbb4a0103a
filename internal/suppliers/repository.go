package suppliers

import (
	"context"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/store"
)

// Table is the storage name of suppliers.
const Table = "supplier"

var schema = store.Schema[Supplier]{
	Table:   Table,
	Key:     "supplier_id",
	Columns: []string{"supplier_name", "contact_person_name", "phone_number", "email", "address", "city"},
	Search:  []string{"supplier_name", "contact_person_name"},
	Scan: func(s store.Scanner) (Supplier, error) {
		var rec Supplier
		err := s.Scan(&rec.ID, &rec.Name, &rec.ContactPerson, &rec.Phone, &rec.Email, &rec.Address, &rec.City)
		return rec, err
	},
	Values: func(rec Supplier) []any {
		return []any{rec.Name, rec.ContactPerson, rec.Phone, rec.Email, rec.Address, rec.City}
	},
	ID:    func(rec Supplier) int64 { return rec.ID },
	SetID: func(rec *Supplier, id int64) { rec.ID = id },
}

// Repository persists suppliers.
type Repository struct {
	table *store.Table[Supplier]
}

// NewRepository builds a Repository over q.
func NewRepository(q store.Querier, dialect db.Dialect) *Repository {
	return &Repository{table: store.NewTable(q, dialect, schema)}
}

// Create inserts rec and returns it with its generated identity.
func (r *Repository) Create(ctx context.Context, rec Supplier) (Supplier, error) {
	return r.table.Insert(ctx, rec)
}

// List returns all suppliers in identity order.
func (r *Repository) List(ctx context.Context) ([]Supplier, error) {
	return r.table.List(ctx)
}

// Get returns a single supplier.
func (r *Repository) Get(ctx context.Context, id int64) (Supplier, error) {
	return r.table.Get(ctx, id)
}

// Update replaces every field of the supplier identified by rec.ID.
func (r *Repository) Update(ctx context.Context, rec Supplier) error {
	return r.table.Update(ctx, rec)
}

// Delete removes a supplier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

// Search matches term against supplier and contact person names.
func (r *Repository) Search(ctx context.Context, term string) ([]Supplier, error) {
	return r.table.Search(ctx, term)
}

// Count returns the number of suppliers.
func (r *Repository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}

// Page returns one 1-based page of suppliers.
func (r *Repository) Page(ctx context.Context, page, size int) ([]Supplier, error) {
	return r.table.Page(ctx, page, size)
}

// Exists reports whether the supplier row exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.table.Exists(ctx, id)
}
