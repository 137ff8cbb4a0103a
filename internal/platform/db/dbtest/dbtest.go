// Package dbtest opens throwaway sqlite databases carrying the application
// schema for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supplyline/supplyline/internal/platform/db"
)

// Open returns a fresh database under t.TempDir with every table created.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.NewSQLite(ctx, filepath.Join(t.TempDir(), "supplyline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.EnsureSchema(ctx, conn, db.SQLite))
	return conn
}

// Exec runs a statement against conn, failing the test on error.
func Exec(t testing.TB, conn *sql.DB, query string, args ...any) {
	t.Helper()
	_, err := conn.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}
