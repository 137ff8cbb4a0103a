package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/supplyline/supplyline/internal/platform/db"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/internal/store"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user User) (User, error)
}

var userSchema = store.Schema[User]{
	Table:   "users",
	Key:     "user_id",
	Columns: []string{"username", "password_hash", "role"},
	Search:  []string{"username"},
	Scan: func(s store.Scanner) (User, error) {
		var u User
		err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
		return u, err
	},
	Values: func(u User) []any { return []any{u.Username, u.PasswordHash, u.Role} },
	ID:     func(u User) int64 { return u.ID },
	SetID:  func(u *User, id int64) { u.ID = id },
}

// SQLRepository implements Repository on the users table.
type SQLRepository struct {
	table *store.Table[User]
}

// NewRepository constructs a SQL repository.
func NewRepository(q store.Querier, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{table: store.NewTable(q, dialect, userSchema)}
}

// FindByUsername fetches a user by username, returning shared.ErrNotFound
// when no account matches.
func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	users, err := r.table.Where(ctx, "username = ?", username)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("auth: user %q: %w", username, shared.ErrNotFound)
	}
	return &users[0], nil
}

// Create inserts a new account. A taken username surfaces as a unique
// constraint error.
func (r *SQLRepository) Create(ctx context.Context, user User) (User, error) {
	created, err := r.table.Insert(ctx, user)
	if err != nil {
		var ce *db.ConstraintError
		if errors.As(err, &ce) && ce.Kind == db.ConstraintUnique {
			return User{}, fmt.Errorf("auth: username %q already taken: %w", user.Username, err)
		}
		return User{}, err
	}
	return created, nil
}

var _ Repository = (*SQLRepository)(nil)
