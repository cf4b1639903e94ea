package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-admin/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository defines the interface for user-related database operations.
// Implementations must enforce email uniqueness and return ErrDuplicateEmail on violation.
type UserRepository interface {
	// List returns all users, newest created_at first.
	List(ctx context.Context) ([]entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persists name, email and avatar only.
	Update(ctx context.Context, u *entity.User) error
	SetActive(ctx context.Context, id string, active bool) (*entity.User, error)
	// Delete removes the row and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*entity.User, error)
}
