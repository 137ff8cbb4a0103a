package shipments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/supplyline/supplyline/internal/shared"
)

// RepositoryPort abstracts shipment persistence for the service.
type RepositoryPort interface {
	Create(ctx context.Context, rec Shipment) (Shipment, error)
	List(ctx context.Context) ([]Shipment, error)
	Get(ctx context.Context, id int64) (Shipment, error)
	Update(ctx context.Context, rec Shipment) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]Shipment, error)
}

// Service validates shipments before they reach storage.
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

// Create validates and stores a new shipment.
func (s *Service) Create(ctx context.Context, rec Shipment) (Shipment, error) {
	rec.Status = shared.NormalizeStatus(rec.Status)
	if err := s.check(rec); err != nil {
		return Shipment{}, err
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Shipment{}, fmt.Errorf("shipments: create: %w", err)
	}
	s.logger.Info("shipment created",
		slog.Int64("shipment_id", created.ID),
		slog.Int64("order_id", created.OrderID),
		slog.String("status", created.Status))
	return created, nil
}

// List returns every shipment.
func (s *Service) List(ctx context.Context) ([]Shipment, error) {
	return s.repo.List(ctx)
}

// Get returns one shipment.
func (s *Service) Get(ctx context.Context, id int64) (Shipment, error) {
	return s.repo.Get(ctx, id)
}

// Update validates rec and overwrites the stored shipment.
func (s *Service) Update(ctx context.Context, rec Shipment) error {
	rec.Status = shared.NormalizeStatus(rec.Status)
	if err := s.check(rec); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("shipments: update: %w", err)
	}
	s.logger.Info("shipment updated", slog.Int64("shipment_id", rec.ID), slog.String("status", rec.Status))
	return nil
}

// Delete removes a shipment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("shipments: delete: %w", err)
	}
	s.logger.Info("shipment deleted", slog.Int64("shipment_id", id))
	return nil
}

// Search matches term against shipment statuses.
func (s *Service) Search(ctx context.Context, term string) ([]Shipment, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term))
}

func (s *Service) check(rec Shipment) error {
	err := shared.ValidateStruct(s.validate, rec)
	if rec.ShipmentDate.IsZero() {
		err = shared.Merge(err, "ShipmentDate", "is required")
	}
	if rec.DeliveryDate.IsZero() {
		err = shared.Merge(err, "DeliveryDate", "is required")
	}
	return err
}
