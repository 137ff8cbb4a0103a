package app

import (
	"log/slog"

	"github.com/supplyline/supplyline/internal/auth"
	"github.com/supplyline/supplyline/internal/inventory"
	"github.com/supplyline/supplyline/internal/orders"
	"github.com/supplyline/supplyline/internal/payments"
	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/shipments"
	"github.com/supplyline/supplyline/internal/suppliers"
)

// Services bundles the domain services built over one database handle.
type Services struct {
	Auth      *auth.Service
	Suppliers *suppliers.Service
	Inventory *inventory.Service
	Orders    *orders.Service
	Shipments *shipments.Service
	Payments  *payments.Service
}

// NewServices wires every repository and service against h.
func NewServices(h *db.Handle, cfg *Config, logger *slog.Logger) *Services {
	threshold := inventory.DefaultLowStockThreshold
	if cfg != nil && cfg.LowStockThreshold > 0 {
		threshold = cfg.LowStockThreshold
	}
	return &Services{
		Auth:      auth.NewService(auth.NewRepository(h.DB, h.Dialect), logger),
		Suppliers: suppliers.NewService(suppliers.NewRepository(h.DB, h.Dialect), logger),
		Inventory: inventory.NewService(inventory.NewRepository(h.DB, h.Dialect), logger, inventory.ServiceConfig{LowStockThreshold: threshold}),
		Orders:    orders.NewService(orders.NewRepository(h.DB, h.Dialect), logger),
		Shipments: shipments.NewService(shipments.NewRepository(h.DB, h.Dialect), logger),
		Payments:  payments.NewService(payments.NewRepository(h.DB, h.Dialect), logger),
	}
}

// Handlers builds the HTTP handlers for s and returns router parameters
// missing only the session, CSRF, metrics and job dependencies.
func (s *Services) Handlers(cfg *Config, logger *slog.Logger) RouterParams {
	pageSize := 0
	if cfg != nil {
		pageSize = cfg.PageSize
	}
	return RouterParams{
		Logger:           logger,
		Config:           cfg,
		SupplierHandler:  suppliers.NewHandler(logger, s.Suppliers, pageSize),
		InventoryHandler: inventory.NewHandler(logger, s.Inventory, pageSize),
		OrderHandler:     orders.NewHandler(logger, s.Orders),
		ShipmentHandler:  shipments.NewHandler(logger, s.Shipments),
		PaymentHandler:   payments.NewHandler(logger, s.Payments),
	}
}
