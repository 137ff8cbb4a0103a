package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the table definitions for the dialect.
func Schema(d Dialect) (string, error) {
	data, err := schemaFS.ReadFile("schema/" + d.String() + ".sql")
	if err != nil {
		return "", fmt.Errorf("platform/db: read schema: %w", err)
	}
	return string(data), nil
}

// EnsureSchema creates any missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, conn *sql.DB, d Dialect) error {
	ddl, err := Schema(d)
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("platform/db: execute ddl: %w", err)
		}
	}
	return nil
}
