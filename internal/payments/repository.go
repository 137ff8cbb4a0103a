package payments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/supplyline/supplyline/internal/orders"
	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/internal/store"
)

// Table is the storage name of payments.
const Table = "payment"

var schema = store.Schema[Payment]{
	Table:   Table,
	Key:     "payment_id",
	Columns: []string{"order_id", "amount", "payment_date", "payment_method"},
	Search:  []string{"order_id", "payment_method"},
	Scan: func(s store.Scanner) (Payment, error) {
		var rec Payment
		err := s.Scan(&rec.ID, &rec.OrderID, &rec.Amount, &rec.PaymentDate, &rec.PaymentMethod)
		return rec, err
	},
	Values: func(rec Payment) []any {
		return []any{rec.OrderID, rec.Amount, rec.PaymentDate, rec.PaymentMethod}
	},
	ID:    func(rec Payment) int64 { return rec.ID },
	SetID: func(rec *Payment, id int64) { rec.ID = id },
}

// Repository persists payments.
type Repository struct {
	conn    *sql.DB
	dialect db.Dialect
	table   *store.Table[Payment]
}

// NewRepository builds a Repository. Payments need the database handle itself
// because Create opens a transaction.
func NewRepository(conn *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{conn: conn, dialect: dialect, table: store.NewTable(conn, dialect, schema)}
}

// Create inserts rec and marks its order Paid in one transaction. When either
// statement fails both are rolled back and the failure is returned.
func (r *Repository) Create(ctx context.Context, rec Payment) (Payment, error) {
	var created Payment
	err := db.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		var err error
		created, err = r.table.With(tx).Insert(ctx, rec)
		if err != nil {
			return err
		}
		return orders.NewRepository(tx, r.dialect).SetPaymentStatus(ctx, rec.OrderID, shared.StatusPaid)
	})
	if err != nil {
		return Payment{}, fmt.Errorf("payments: add: %w", err)
	}
	return created, nil
}

// List returns all payments in identity order.
func (r *Repository) List(ctx context.Context) ([]Payment, error) {
	return r.table.List(ctx)
}

// Get returns a single payment.
func (r *Repository) Get(ctx context.Context, id int64) (Payment, error) {
	return r.table.Get(ctx, id)
}

// Update replaces every field of the payment identified by rec.ID. The order
// status is left alone.
func (r *Repository) Update(ctx context.Context, rec Payment) error {
	return r.table.Update(ctx, rec)
}

// Delete removes a payment.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

// Search matches term against the order id as text and the payment method.
func (r *Repository) Search(ctx context.Context, term string) ([]Payment, error) {
	return r.table.Search(ctx, term)
}
