// Package store implements the CRUD-with-search-and-pagination contract shared
// by every entity repository. A Table is parameterised by a Schema describing
// the table, its identity column, its writable columns and how rows map onto
// the record type.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/shared"
)

var (
	// ErrNotFound is returned when no row carries the requested identity.
	ErrNotFound = shared.ErrNotFound
	// ErrInvalidPage is returned for a page below 1 or a non-positive page size.
	ErrInvalidPage = errors.New("store: page and page size must be positive")
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Schema describes how a record type maps onto a table.
type Schema[T any] struct {
	// Table is the SQL table name.
	Table string
	// Key is the store-generated identity column.
	Key string
	// Columns are the writable columns, in the order Values returns them.
	Columns []string
	// Search lists the columns matched by Search; each is compared as text.
	Search []string
	// Scan reads Key followed by Columns.
	Scan func(Scanner) (T, error)
	// Values returns the values for Columns.
	Values func(T) []any
	// ID returns the identity of a record.
	ID func(T) int64
	// SetID assigns the identity of a record.
	SetID func(*T, int64)
}

// Table runs the generic CRUD statements for one schema.
type Table[T any] struct {
	q       Querier
	dialect db.Dialect
	schema  Schema[T]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
	countSQL  string
	searchSQL string
}

// NewTable prepares the statements for schema.
func NewTable[T any](q Querier, dialect db.Dialect, schema Schema[T]) *Table[T] {
	t := &Table[T]{q: q, dialect: dialect, schema: schema}

	cols := append([]string{schema.Key}, schema.Columns...)
	t.selectSQL = "SELECT " + strings.Join(cols, ", ") + " FROM " + schema.Table

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(schema.Columns)), ", ")
	t.insertSQL = "INSERT INTO " + schema.Table + " (" + strings.Join(schema.Columns, ", ") + ") VALUES (" + marks + ") RETURNING " + schema.Key

	sets := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		sets[i] = c + " = ?"
	}
	t.updateSQL = "UPDATE " + schema.Table + " SET " + strings.Join(sets, ", ") + " WHERE " + schema.Key + " = ?"
	t.deleteSQL = "DELETE FROM " + schema.Table + " WHERE " + schema.Key + " = ?"
	t.countSQL = "SELECT COUNT(*) FROM " + schema.Table

	if len(schema.Search) > 0 {
		conds := make([]string, len(schema.Search))
		for i, c := range schema.Search {
			conds[i] = "CAST(" + c + " AS TEXT) " + dialect.Like() + ` ? ESCAPE '\'`
		}
		t.searchSQL = t.selectSQL + " WHERE " + strings.Join(conds, " OR ") + " ORDER BY " + schema.Key
	}
	return t
}

// With returns a copy of the table bound to q, typically a transaction.
func (t *Table[T]) With(q Querier) *Table[T] {
	clone := *t
	clone.q = q
	return &clone
}

// Dialect reports the dialect the table was built for.
func (t *Table[T]) Dialect() db.Dialect {
	return t.dialect
}

// Insert adds rec and returns it with the identity assigned by the store.
func (t *Table[T]) Insert(ctx context.Context, rec T) (T, error) {
	var id int64
	err := t.q.QueryRowContext(ctx, t.dialect.Rebind(t.insertSQL), t.schema.Values(rec)...).Scan(&id)
	if err != nil {
		var zero T
		return zero, t.wrap("insert", err)
	}
	t.schema.SetID(&rec, id)
	return rec, nil
}

// List returns every row in identity order.
func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	return t.query(ctx, "list", t.selectSQL+" ORDER BY "+t.schema.Key)
}

// Get returns the row with the given identity or ErrNotFound.
func (t *Table[T]) Get(ctx context.Context, id int64) (T, error) {
	query := t.dialect.Rebind(t.selectSQL + " WHERE " + t.schema.Key + " = ?")
	rec, err := t.schema.Scan(t.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, fmt.Errorf("store: %s %d: %w", t.schema.Table, id, ErrNotFound)
	}
	if err != nil {
		var zero T
		return zero, t.wrap("get", err)
	}
	return rec, nil
}

// Update overwrites every writable column of the row identified by rec.
// It returns ErrNotFound, leaving the store unchanged, when no row matches.
func (t *Table[T]) Update(ctx context.Context, rec T) error {
	id := t.schema.ID(rec)
	args := append(t.schema.Values(rec), id)
	return t.execOne(ctx, "update", t.updateSQL, id, args...)
}

// Delete removes the row with the given identity or returns ErrNotFound.
func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	return t.execOne(ctx, "delete", t.deleteSQL, id, id)
}

// Search returns rows where any search column contains term as a literal
// substring. An empty term matches every row.
func (t *Table[T]) Search(ctx context.Context, term string) ([]T, error) {
	if t.searchSQL == "" {
		return t.List(ctx)
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	args := make([]any, len(t.schema.Search))
	for i := range args {
		args[i] = pattern
	}
	return t.query(ctx, "search", t.searchSQL, args...)
}

// Count returns the number of rows.
func (t *Table[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := t.q.QueryRowContext(ctx, t.countSQL).Scan(&n); err != nil {
		return 0, t.wrap("count", err)
	}
	return n, nil
}

// Page returns the 1-based page of size rows in identity order.
func (t *Table[T]) Page(ctx context.Context, page, size int) ([]T, error) {
	if page < 1 || size < 1 {
		return nil, ErrInvalidPage
	}
	if page-1 > math.MaxInt/size {
		// No table holds more rows than the offset would skip.
		return []T{}, nil
	}
	query := t.selectSQL + " ORDER BY " + t.schema.Key + " LIMIT ? OFFSET ?"
	return t.query(ctx, "page", query, size, (page-1)*size)
}

// Where returns rows matching cond, written with `?` placeholders.
func (t *Table[T]) Where(ctx context.Context, cond string, args ...any) ([]T, error) {
	return t.query(ctx, "where", t.selectSQL+" WHERE "+cond+" ORDER BY "+t.schema.Key, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Exists reports whether a row with the given identity exists.
func (t *Table[T]) Exists(ctx context.Context, id int64) (bool, error) {
	return Exists(ctx, t.q, t.dialect, t.schema.Table, t.schema.Key, id)
}

// Exists reports whether table holds a row whose key column equals id.
func Exists(ctx context.Context, q Querier, dialect db.Dialect, table, key string, id int64) (bool, error) {
	var n int
	query := dialect.Rebind("SELECT COUNT(*) FROM " + table + " WHERE " + key + " = ?")
	if err := q.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return false, fmt.Errorf("store: %s exists: %w", table, err)
	}
	return n > 0, nil
}

func (t *Table[T]) query(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows, err := t.q.QueryContext(ctx, t.dialect.Rebind(query), args...)
	if err != nil {
		return nil, t.wrap(op, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		rec, err := t.schema.Scan(rows)
		if err != nil {
			return nil, t.wrap(op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, t.wrap(op, err)
	}
	return out, nil
}

func (t *Table[T]) execOne(ctx context.Context, op, query string, id int64, args ...any) error {
	res, err := t.q.ExecContext(ctx, t.dialect.Rebind(query), args...)
	if err != nil {
		return t.wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return t.wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s %s %d: %w", t.schema.Table, op, id, ErrNotFound)
	}
	return nil
}

func (t *Table[T]) wrap(op string, err error) error {
	return fmt.Errorf("store: %s %s: %w", t.schema.Table, op, db.Classify(err))
}
