package suppliers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/supplyline/supplyline/internal/shared"
)

// RepositoryPort abstracts supplier persistence for the service.
type RepositoryPort interface {
	Create(ctx context.Context, rec Supplier) (Supplier, error)
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Update(ctx context.Context, rec Supplier) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]Supplier, error)
	Count(ctx context.Context) (int, error)
	Page(ctx context.Context, page, size int) ([]Supplier, error)
}

// Service validates supplier input before it reaches storage.
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

// Create validates and stores a new supplier.
func (s *Service) Create(ctx context.Context, rec Supplier) (Supplier, error) {
	rec = normalize(rec)
	if err := shared.ValidateStruct(s.validate, rec); err != nil {
		return Supplier{}, err
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: create: %w", err)
	}
	s.logger.Info("supplier created", slog.Int64("supplier_id", created.ID), slog.String("name", created.Name))
	return created, nil
}

// List returns every supplier.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

// Update validates rec and overwrites the stored supplier.
func (s *Service) Update(ctx context.Context, rec Supplier) error {
	rec = normalize(rec)
	if err := shared.ValidateStruct(s.validate, rec); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("suppliers: update: %w", err)
	}
	s.logger.Info("supplier updated", slog.Int64("supplier_id", rec.ID))
	return nil
}

// Delete removes a supplier. Suppliers still referenced by inventory are
// rejected by the store with a constraint error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("suppliers: delete: %w", err)
	}
	s.logger.Info("supplier deleted", slog.Int64("supplier_id", id))
	return nil
}

// Search matches term against supplier and contact names.
func (s *Service) Search(ctx context.Context, term string) ([]Supplier, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term))
}

// Count returns the number of suppliers.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ListPage returns one page of suppliers with pagination metadata.
func (s *Service) ListPage(ctx context.Context, page, size int) (Page, error) {
	items, err := s.repo.Page(ctx, page, size)
	if err != nil {
		return Page{}, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Pagination: shared.NewPagination(page, size, total)}, nil
}

func normalize(rec Supplier) Supplier {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.ContactPerson = strings.TrimSpace(rec.ContactPerson)
	rec.Phone = strings.TrimSpace(rec.Phone)
	rec.Email = strings.TrimSpace(rec.Email)
	rec.Address = strings.TrimSpace(rec.Address)
	rec.City = strings.TrimSpace(rec.City)
	return rec
}
