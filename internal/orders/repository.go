package orders

import (
	"context"
	"fmt"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/store"
)

// Table is the storage name of orders.
const Table = "orders"

var schema = store.Schema[Order]{
	Table:   Table,
	Key:     "order_id",
	Columns: []string{"order_date", "customer_name", "item_id", "quantity", "shipment_status", "payment_status"},
	Search:  []string{"customer_name"},
	Scan: func(s store.Scanner) (Order, error) {
		var rec Order
		err := s.Scan(&rec.ID, &rec.OrderDate, &rec.CustomerName, &rec.ItemID, &rec.Quantity, &rec.ShipmentStatus, &rec.PaymentStatus)
		return rec, err
	},
	Values: func(rec Order) []any {
		return []any{rec.OrderDate, rec.CustomerName, rec.ItemID, rec.Quantity, rec.ShipmentStatus, rec.PaymentStatus}
	},
	ID:    func(rec Order) int64 { return rec.ID },
	SetID: func(rec *Order, id int64) { rec.ID = id },
}

// Repository persists orders. It may be bound to a transaction.
type Repository struct {
	q       store.Querier
	dialect db.Dialect
	table   *store.Table[Order]
}

// NewRepository builds a Repository over q, which may be a *sql.DB or *sql.Tx.
func NewRepository(q store.Querier, dialect db.Dialect) *Repository {
	return &Repository{q: q, dialect: dialect, table: store.NewTable(q, dialect, schema)}
}

// Create inserts rec and returns it with its generated identity.
func (r *Repository) Create(ctx context.Context, rec Order) (Order, error) {
	return r.table.Insert(ctx, rec)
}

// List returns all orders in identity order.
func (r *Repository) List(ctx context.Context) ([]Order, error) {
	return r.table.List(ctx)
}

// Get returns a single order.
func (r *Repository) Get(ctx context.Context, id int64) (Order, error) {
	return r.table.Get(ctx, id)
}

// Update replaces every field of the order identified by rec.ID.
func (r *Repository) Update(ctx context.Context, rec Order) error {
	return r.table.Update(ctx, rec)
}

// Delete removes an order.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

// Search matches term against customer names.
func (r *Repository) Search(ctx context.Context, term string) ([]Order, error) {
	return r.table.Search(ctx, term)
}

// SetPaymentStatus writes the payment_status column of one order.
func (r *Repository) SetPaymentStatus(ctx context.Context, orderID int64, status string) error {
	query := r.dialect.Rebind("UPDATE " + Table + " SET payment_status = ? WHERE order_id = ?")
	res, err := r.q.ExecContext(ctx, query, status, orderID)
	if err != nil {
		return fmt.Errorf("orders: set payment status: %w", db.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("orders: set payment status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("orders: order %d: %w", orderID, store.ErrNotFound)
	}
	return nil
}
