package repository

import (
	"context"
	"errors"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user insert violates the email
	// unique constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines persistence for user identities.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
