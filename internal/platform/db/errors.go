package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrConstraint matches every storage-level constraint violation.
var ErrConstraint = errors.New("constraint violation")

// ConstraintKind names the violated constraint family.
type ConstraintKind string

const (
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintOther      ConstraintKind = "constraint"
)

// ConstraintError reports a constraint rejected by the store.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s violation (%s): %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s violation: %v", e.Kind, e.Err)
}

// Unwrap exposes both ErrConstraint and the driver error.
func (e *ConstraintError) Unwrap() []error {
	return []error{ErrConstraint, e.Err}
}

// IsForeignKey reports whether err is a foreign key violation.
func IsForeignKey(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Kind == ConstraintForeignKey
}

// Classify converts driver constraint errors into *ConstraintError. Other errors
// are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind, ok := pgConstraintKind(pgErr.Code)
		if !ok {
			return err
		}
		return &ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		kind, ok := sqliteConstraintKind(liteErr)
		if !ok {
			return err
		}
		return &ConstraintError{Kind: kind, Err: err}
	}
	return err
}

func pgConstraintKind(code string) (ConstraintKind, bool) {
	switch code {
	case "23503":
		return ConstraintForeignKey, true
	case "23505":
		return ConstraintUnique, true
	case "23502":
		return ConstraintNotNull, true
	case "23514":
		return ConstraintCheck, true
	}
	if strings.HasPrefix(code, "23") {
		return ConstraintOther, true
	}
	return "", false
}

func sqliteConstraintKind(err *sqlite.Error) (ConstraintKind, bool) {
	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ConstraintForeignKey, true
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ConstraintUnique, true
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return ConstraintNotNull, true
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return ConstraintCheck, true
	}
	if err.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return "", false
	}
	if strings.Contains(err.Error(), "FOREIGN KEY") {
		return ConstraintForeignKey, true
	}
	return ConstraintOther, true
}
