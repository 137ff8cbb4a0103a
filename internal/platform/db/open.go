package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres" // PostgreSQL server
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
)

// Handle bundles an open database with the dialect it speaks.
type Handle struct {
	DB      *sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// Open connects to the configured backend. For sqlite the dsn is a file path.
func Open(ctx context.Context, driver Driver, dsn string) (*Handle, error) {
	switch driver {
	case DriverPostgres:
		pool, conn, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Handle{DB: conn, Dialect: Postgres, pool: pool}, nil
	case DriverSQLite, "":
		conn, err := NewSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Handle{DB: conn, Dialect: SQLite}, nil
	default:
		return nil, fmt.Errorf("platform/db: unknown driver %q", driver)
	}
}

// Close releases the database handle and, for postgres, the underlying pool.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	err := h.DB.Close()
	if h.pool != nil {
		h.pool.Close()
	}
	return err
}
