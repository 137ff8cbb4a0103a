package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/supplyline/supplyline/internal/auth"
	"github.com/supplyline/supplyline/internal/inventory"
	"github.com/supplyline/supplyline/internal/observability"
	"github.com/supplyline/supplyline/internal/orders"
	"github.com/supplyline/supplyline/internal/payments"
	"github.com/supplyline/supplyline/internal/platform/httpx"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/internal/shipments"
	"github.com/supplyline/supplyline/internal/suppliers"
	"github.com/supplyline/supplyline/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	SupplierHandler  *suppliers.Handler
	InventoryHandler *inventory.Handler
	OrderHandler     *orders.Handler
	ShipmentHandler  *shipments.Handler
	PaymentHandler   *payments.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}

		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Route("/suppliers", params.SupplierHandler.MountRoutes)
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
			r.Route("/orders", params.OrderHandler.MountRoutes)
			r.Route("/shipments", params.ShipmentHandler.MountRoutes)
			r.Route("/payments", params.PaymentHandler.MountRoutes)
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
