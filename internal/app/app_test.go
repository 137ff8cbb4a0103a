package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyline/supplyline/internal/auth"
	"github.com/supplyline/supplyline/internal/observability"
	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/shared"
)

func testConfig() *Config {
	return &Config{
		AppEnv:            "test",
		DBDriver:          string(db.DriverSQLite),
		SessionSecret:     "secret",
		SessionTTL:        time.Hour,
		CSRFSecret:        "csrf",
		LowStockThreshold: 50,
		PageSize:          10,
	}
}

type client struct {
	t     *testing.T
	http  *http.Client
	base  string
	token string
}

func newTestServer(t *testing.T) *client {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig()
	logger := newLogger(cfg, &bytes.Buffer{})

	handle, err := db.Open(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })
	require.NoError(t, db.EnsureSchema(ctx, handle.DB, handle.Dialect))

	services := NewServices(handle, cfg, logger)
	_, err = services.Auth.Register(ctx, auth.Registration{Username: "admin", Password: "admin-pass", Role: "admin"})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	params := services.Handlers(cfg, logger)
	params.SessionManager = shared.NewSessionManager(rdb, "supplyline_session", cfg.SessionSecret, cfg.SessionTTL, false)
	params.CSRFManager = shared.NewCSRFManager(cfg.CSRFSecret)
	params.AuthHandler = auth.NewHandler(logger, services.Auth, params.SessionManager, params.CSRFManager)
	params.Metrics = observability.NewMetrics()

	srv := httptest.NewServer(NewRouter(params))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, http: &http.Client{Jar: jar}, base: srv.URL}
}

func (c *client) do(method, path, body string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, strings.NewReader(body))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(shared.CSRFHeader, c.token)
	}
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (c *client) login() {
	c.t.Helper()
	res := c.do(http.MethodGet, "/auth/csrf", "")
	require.Equal(c.t, http.StatusOK, res.StatusCode)
	var tok struct {
		Token string `json:"csrf_token"`
	}
	require.NoError(c.t, json.NewDecoder(res.Body).Decode(&tok))
	c.token = tok.Token

	res = c.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin-pass"}`)
	require.Equal(c.t, http.StatusOK, res.StatusCode)
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	c := newTestServer(t)

	res := c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = c.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestEntityRoutesRequireLogin(t *testing.T) {
	c := newTestServer(t)

	for _, path := range []string{"/suppliers/", "/inventory/", "/orders/", "/shipments/", "/payments/", "/inventory/low-stock"} {
		res := c.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, path)
	}
}

func TestStateChangesRequireCSRFToken(t *testing.T) {
	c := newTestServer(t)

	res := c.do(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin-pass"}`)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	c.login()
	c.token = "forged"
	res = c.do(http.MethodPost, "/suppliers/", `{"name":"Acme"}`)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestSupplyChainFlow(t *testing.T) {
	c := newTestServer(t)
	c.login()

	res := c.do(http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var me shared.SessionUser
	require.NoError(t, json.NewDecoder(res.Body).Decode(&me))
	assert.Equal(t, "admin", me.Role)

	res = c.do(http.MethodPost, "/suppliers/", `{"name":"Acme","contact_person":"Jo","phone":"555","email":"a@a.com","address":"1 St","city":"X"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = c.do(http.MethodPost, "/inventory/", `{"name":"Widget","quantity":10,"supplier_id":1}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = c.do(http.MethodPost, "/inventory/", `{"name":"Orphan","quantity":10,"supplier_id":9999}`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = c.do(http.MethodPost, "/orders/", `{"order_date":"2024-01-01","customer_name":"Bob","item_id":1,"quantity":2,"shipment_status":"Pending","payment_status":"Unpaid"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = c.do(http.MethodPost, "/payments/", `{"order_id":1,"amount":"50.0","payment_date":"2024-01-02","payment_method":"Card"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = c.do(http.MethodGet, "/orders/1", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var order struct {
		PaymentStatus string `json:"payment_status"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&order))
	assert.Equal(t, "Paid", order.PaymentStatus)

	res = c.do(http.MethodGet, "/inventory/low-stock", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var low struct {
		Threshold int               `json:"threshold"`
		Items     []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&low))
	assert.Equal(t, 50, low.Threshold)
	assert.Len(t, low.Items, 1)

	res = c.do(http.MethodDelete, "/suppliers/1", "")
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = c.do(http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	res = c.do(http.MethodGet, "/suppliers/", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "", cfg.DSN())

	cfg.DBDriver = "mysql"
	require.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.DBDriver = string(db.DriverPostgres)
	cfg.PGDSN = "postgres://x"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres://x", cfg.DSN())

	cfg.CSRFSecret = ""
	require.Error(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")
	for _, key := range []string{"LOW_STOCK_THRESHOLD", "DB_DRIVER", "PAGE_SIZE", "SESSION_TTL", "APP_ENV"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, string(db.DriverSQLite), cfg.DBDriver)
	assert.Equal(t, 50, cfg.LowStockThreshold)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv(TestModeEnv, "true")
	assert.True(t, RefreshTestMode())
	assert.True(t, InTestMode())

	t.Setenv(TestModeEnv, "")
	assert.False(t, RefreshTestMode())
	assert.False(t, InTestMode())
}

func TestResponsesCarrySecurityHeaders(t *testing.T) {
	c := newTestServer(t)

	res := c.do(http.MethodGet, "/auth/csrf", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "DENY", res.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", res.Header.Get("Referrer-Policy"))
}
