package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/platform/db/dbtest"
	"github.com/supplyline/supplyline/internal/shared"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewRepository(dbtest.Open(t), db.SQLite), slog.New(slog.DiscardHandler))
	svc.cost = bcrypt.MinCost
	return svc
}

func TestAuthenticateScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, Registration{Username: "admin", Password: "s3cret-pass", Role: "admin"})
	require.NoError(t, err)
	require.NotZero(t, registered.ID)
	assert.NotEqual(t, "s3cret-pass", registered.PasswordHash)

	user, err := svc.Authenticate(ctx, "admin", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "admin", user.Role)

	_, err = svc.Authenticate(ctx, "admin", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "s3cret-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterDefaultsRoleAndRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{Username: "clerk", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, user.Role)

	_, err = svc.Register(ctx, Registration{Username: "clerk", Password: "password2"})
	require.ErrorIs(t, err, db.ErrConstraint)

	_, err = svc.Register(ctx, Registration{Username: "short", Password: "123"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

type brokenRepo struct{ err error }

func (r brokenRepo) FindByUsername(context.Context, string) (*User, error) { return nil, r.err }
func (r brokenRepo) Create(context.Context, User) (User, error)            { return User{}, r.err }

func TestAuthenticateSurfacesStorageErrors(t *testing.T) {
	boom := errors.New("database is closed")
	svc := NewService(brokenRepo{err: boom}, nil)

	_, err := svc.Authenticate(context.Background(), "admin", "x")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)
}

type harness struct {
	handler  *Handler
	sessions *shared.SessionManager
}

func newHarness(t *testing.T) harness {
	t.Helper()
	svc := newTestService(t)
	_, err := svc.Register(context.Background(), Registration{Username: "bob", Password: "correctpass", Role: "manager"})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	return harness{handler: NewHandler(nil, svc, sessions, shared.NewCSRFManager("csrfsecret")), sessions: sessions}
}

// serve runs one request through the handler with a session loaded from the
// request cookies and committed afterwards.
func (h harness) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := h.sessions.Load(req.Context(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	res := httptest.NewRecorder()
	h.handler.MountRoutesForTest().ServeHTTP(res, req.WithContext(ctx))
	require.NoError(t, h.sessions.Commit(ctx, res, sess))
	return res, sess
}

func TestLoginMeLogout(t *testing.T) {
	h := newHarness(t)

	res, _ := h.serve(t, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res, sess := h.serve(t, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"bob","password":"correctpass"}`)))
	require.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, res.Body.String(), "password")
	user, ok := sess.User()
	require.True(t, ok)
	assert.Equal(t, "manager", user.Role)

	me := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range res.Result().Cookies() {
		me.AddCookie(c)
	}
	res, _ = h.serve(t, me)
	require.Equal(t, http.StatusOK, res.Code)
	var got shared.SessionUser
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "bob", got.Username)

	logout := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logout.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: sess.ID})
	res, _ = h.serve(t, logout)
	require.Equal(t, http.StatusNoContent, res.Code)

	again := httptest.NewRequest(http.MethodGet, "/me", nil)
	again.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: sess.ID})
	res, _ = h.serve(t, again)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newHarness(t)

	res, sess := h.serve(t, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"bob","password":"wrongpass"}`)))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	_, ok := sess.User()
	assert.False(t, ok)

	res, _ = h.serve(t, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":""}`)))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLoginRotatesSessionID(t *testing.T) {
	h := newHarness(t)

	res, anon := h.serve(t, httptest.NewRequest(http.MethodGet, "/csrf", nil))
	require.Equal(t, http.StatusOK, res.Code)
	anonID := anon.ID

	login := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"bob","password":"correctpass"}`))
	login.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: anonID})
	res, sess := h.serve(t, login)
	require.Equal(t, http.StatusOK, res.Code)
	assert.NotEqual(t, anonID, sess.ID)
}
