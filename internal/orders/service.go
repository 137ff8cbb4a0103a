package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/supplyline/supplyline/internal/shared"
)

// RepositoryPort abstracts order persistence for the service.
type RepositoryPort interface {
	Create(ctx context.Context, rec Order) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	Update(ctx context.Context, rec Order) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]Order, error)
}

// Service validates and normalises orders.
type Service struct {
	repo     RepositoryPort
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService builds Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, validate: validator.New()}
}

// Create validates and stores a new order. New orders default to a Pending
// shipment and an Unpaid payment status.
func (s *Service) Create(ctx context.Context, rec Order) (Order, error) {
	rec = normalize(rec)
	if rec.ShipmentStatus == "" {
		rec.ShipmentStatus = shared.StatusPending
	}
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = shared.StatusUnpaid
	}
	if err := s.check(rec); err != nil {
		return Order{}, err
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Order{}, fmt.Errorf("orders: create: %w", err)
	}
	s.logger.Info("order created",
		slog.Int64("order_id", created.ID),
		slog.Int64("item_id", created.ItemID),
		slog.Int("quantity", created.Quantity))
	return created, nil
}

// List returns every order.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.Get(ctx, id)
}

// Update validates rec and overwrites the stored order.
func (s *Service) Update(ctx context.Context, rec Order) error {
	rec = normalize(rec)
	if err := s.check(rec); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("orders: update: %w", err)
	}
	s.logger.Info("order updated", slog.Int64("order_id", rec.ID))
	return nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	s.logger.Info("order deleted", slog.Int64("order_id", id))
	return nil
}

// Search matches term against customer names.
func (s *Service) Search(ctx context.Context, term string) ([]Order, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term))
}

func (s *Service) check(rec Order) error {
	err := shared.ValidateStruct(s.validate, rec)
	if rec.OrderDate.IsZero() {
		err = shared.Merge(err, "OrderDate", "is required")
	}
	return err
}

func normalize(rec Order) Order {
	rec.CustomerName = strings.TrimSpace(rec.CustomerName)
	rec.ShipmentStatus = shared.NormalizeStatus(rec.ShipmentStatus)
	rec.PaymentStatus = shared.NormalizeStatus(rec.PaymentStatus)
	return rec
}
