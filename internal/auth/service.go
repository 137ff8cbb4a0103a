package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/supplyline/supplyline/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	validate *validator.Validate
	cost     int
}

// NewService constructs a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, validate: validator.New(), cost: bcrypt.DefaultCost}
}

// Authenticate validates username/password credentials. An unknown user or a
// wrong password yields shared.ErrInvalidCredentials; any other error is a
// storage failure.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Register hashes the password and stores a new account.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Role = strings.TrimSpace(reg.Role)
	if err := shared.ValidateStruct(s.validate, reg); err != nil {
		return User{}, err
	}
	if reg.Role == "" {
		reg.Role = DefaultRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, User{Username: reg.Username, PasswordHash: string(hash), Role: reg.Role})
	if err != nil {
		return User{}, fmt.Errorf("auth: register: %w", err)
	}
	s.logger.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username), slog.String("role", user.Role))
	return user, nil
}
