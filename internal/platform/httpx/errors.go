// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/internal/store"
)

// ErrBadRequest marks malformed input such as undecodable bodies or ids.
var ErrBadRequest = errors.New("bad request")

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation), errors.Is(err, store.ErrInvalidPage), errors.Is(err, ErrBadRequest):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, db.ErrConstraint):
		Problem(w, http.StatusConflict, "Constraint Violation", constraintDetail(err))
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrCSRFTokenMissing), errors.Is(err, shared.ErrCSRFTokenMismatch):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func constraintDetail(err error) string {
	var ce *db.ConstraintError
	if !errors.As(err, &ce) {
		return ""
	}
	if ce.Kind == db.ConstraintForeignKey {
		return "record references a row that does not exist or is still referenced"
	}
	return string(ce.Kind) + " violation"
}
