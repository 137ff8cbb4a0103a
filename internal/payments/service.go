package payments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/supplyline/supplyline/internal/shared"
)

// RepositoryPort abstracts payment persistence for the service.
type RepositoryPort interface {
	Create(ctx context.Context, rec Payment) (Payment, error)
	List(ctx context.Context) ([]Payment, error)
	Get(ctx context.Context, id int64) (Payment, error)
	Update(ctx context.Context, rec Payment) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]Payment, error)
}

// Service validates payments and records them against orders.
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

// Add validates rec, stores it and marks the paid order as Paid.
func (s *Service) Add(ctx context.Context, rec Payment) (Payment, error) {
	rec.PaymentMethod = strings.TrimSpace(rec.PaymentMethod)
	if err := s.check(rec); err != nil {
		return Payment{}, err
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.logger.Error("payment rolled back", slog.Int64("order_id", rec.OrderID), slog.Any("error", err))
		return Payment{}, err
	}
	s.logger.Info("payment recorded",
		slog.Int64("payment_id", created.ID),
		slog.Int64("order_id", created.OrderID),
		slog.String("amount", created.Amount.StringFixed(2)))
	return created, nil
}

// List returns every payment.
func (s *Service) List(ctx context.Context) ([]Payment, error) {
	return s.repo.List(ctx)
}

// Get returns one payment.
func (s *Service) Get(ctx context.Context, id int64) (Payment, error) {
	return s.repo.Get(ctx, id)
}

// Update validates rec and overwrites the stored payment.
func (s *Service) Update(ctx context.Context, rec Payment) error {
	rec.PaymentMethod = strings.TrimSpace(rec.PaymentMethod)
	if err := s.check(rec); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("payments: update: %w", err)
	}
	s.logger.Info("payment updated", slog.Int64("payment_id", rec.ID))
	return nil
}

// Delete removes a payment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("payments: delete: %w", err)
	}
	s.logger.Info("payment deleted", slog.Int64("payment_id", id))
	return nil
}

// Search matches term against order ids and payment methods.
func (s *Service) Search(ctx context.Context, term string) ([]Payment, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term))
}

func (s *Service) check(rec Payment) error {
	err := shared.ValidateStruct(s.validate, rec)
	if !rec.Amount.IsPositive() {
		err = shared.Merge(err, "Amount", "must be greater than zero")
	}
	if rec.PaymentDate.IsZero() {
		err = shared.Merge(err, "PaymentDate", "is required")
	}
	return err
}
