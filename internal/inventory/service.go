package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/supplyline/supplyline/internal/shared"
)

// RepositoryPort abstracts inventory persistence for the service.
type RepositoryPort interface {
	Create(ctx context.Context, rec Item) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Update(ctx context.Context, rec Item) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]Item, error)
	Count(ctx context.Context) (int, error)
	Page(ctx context.Context, page, size int) ([]Item, error)
	LowStock(ctx context.Context, threshold int) ([]Item, error)
	SupplierExists(ctx context.Context, supplierID int64) (bool, error)
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	LowStockThreshold int
}

// Service coordinates inventory operations.
type Service struct {
	repo      RepositoryPort
	logger    *slog.Logger
	validate  *validator.Validate
	threshold int
}

// NewService builds Service.
func NewService(repo RepositoryPort, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Service{repo: repo, logger: logger, validate: validator.New(), threshold: threshold}
}

// Threshold returns the configured low-stock threshold.
func (s *Service) Threshold() int {
	return s.threshold
}

// Create validates rec, checks its supplier and stores it.
func (s *Service) Create(ctx context.Context, rec Item) (Item, error) {
	rec.Name = strings.TrimSpace(rec.Name)
	if err := s.check(ctx, rec); err != nil {
		return Item{}, err
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Item{}, fmt.Errorf("inventory: create: %w", err)
	}
	s.logger.Info("inventory item created",
		slog.Int64("item_id", created.ID),
		slog.Int64("supplier_id", created.SupplierID),
		slog.Int("quantity", created.Quantity))
	return created, nil
}

// List returns every item.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	return s.repo.Get(ctx, id)
}

// Update validates rec, checks its supplier and overwrites the stored item.
func (s *Service) Update(ctx context.Context, rec Item) error {
	rec.Name = strings.TrimSpace(rec.Name)
	if err := s.check(ctx, rec); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("inventory: update: %w", err)
	}
	s.logger.Info("inventory item updated", slog.Int64("item_id", rec.ID), slog.Int("quantity", rec.Quantity))
	return nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("inventory: delete: %w", err)
	}
	s.logger.Info("inventory item deleted", slog.Int64("item_id", id))
	return nil
}

// Search matches term against item names and supplier ids.
func (s *Service) Search(ctx context.Context, term string) ([]Item, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term))
}

// Count returns the number of items.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ListPage returns one page of items with pagination metadata.
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

// LowStock returns items with quantity strictly below threshold. A threshold
// of zero or less selects the configured default.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Item, error) {
	if threshold <= 0 {
		threshold = s.threshold
	}
	items, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("inventory: low stock: %w", err)
	}
	return items, nil
}

// SupplierExists reports whether supplierID names a stored supplier.
func (s *Service) SupplierExists(ctx context.Context, supplierID int64) (bool, error) {
	return s.repo.SupplierExists(ctx, supplierID)
}

func (s *Service) check(ctx context.Context, rec Item) error {
	if err := shared.ValidateStruct(s.validate, rec); err != nil {
		return err
	}
	ok, err := s.repo.SupplierExists(ctx, rec.SupplierID)
	if err != nil {
		return fmt.Errorf("inventory: supplier lookup: %w", err)
	}
	if !ok {
		return shared.FieldError("SupplierID", "references an unknown supplier")
	}
	return nil
}
