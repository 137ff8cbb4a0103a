package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/internal/store"
)

func TestRespondErrorStatus(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"not found":   {fmt.Errorf("store: supplier 1: %w", shared.ErrNotFound), http.StatusNotFound},
		"validation":  {shared.FieldError("name", "is required"), http.StatusBadRequest},
		"page":        {store.ErrInvalidPage, http.StatusBadRequest},
		"bad request": {fmt.Errorf("%w: x", ErrBadRequest), http.StatusBadRequest},
		"constraint":  {&db.ConstraintError{Kind: db.ConstraintForeignKey, Err: errors.New("fk")}, http.StatusConflict},
		"credentials": {shared.ErrInvalidCredentials, http.StatusUnauthorized},
		"csrf":        {shared.ErrCSRFTokenMismatch, http.StatusForbidden},
		"other":       {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			require.Equal(t, tc.status, rec.Code)

			var pd ProblemDetail
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&pd))
			assert.Equal(t, tc.status, pd.Status)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("dial tcp 10.0.0.1: refused"))
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestIDParam(t *testing.T) {
	r := chi.NewRouter()
	var got int64
	var gotErr error
	r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = IDParam(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, int64(42), got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abc", nil))
	require.ErrorIs(t, gotErr, ErrBadRequest)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/-3", nil))
	require.ErrorIs(t, gotErr, ErrBadRequest)
}

func TestIntQuery(t *testing.T) {
	v, err := IntQuery(httptest.NewRequest(http.MethodGet, "/", nil), "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = IntQuery(httptest.NewRequest(http.MethodGet, "/?page=3", nil), "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = IntQuery(httptest.NewRequest(http.MethodGet, "/?page=x", nil), "page", 1)
	require.ErrorIs(t, err, ErrBadRequest)
}
