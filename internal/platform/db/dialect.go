package db

import (
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported backends.
type Dialect int

const (
	// SQLite speaks `?` placeholders and a case-insensitive LIKE.
	SQLite Dialect = iota
	// Postgres speaks `$n` placeholders; ILIKE keeps search case-insensitive.
	Postgres
)

// String returns the driver name of the dialect.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return string(DriverPostgres)
	default:
		return string(DriverSQLite)
	}
}

// Rebind rewrites `?` placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Like returns the substring-match operator.
func (d Dialect) Like() string {
	if d == Postgres {
		return "ILIKE"
	}
	return "LIKE"
}
