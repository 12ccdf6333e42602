// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository is the credential store: user records keyed by id and unique email.
type UserRepository interface {
	// Create inserts a new user; a taken email or phone number yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]model.User, error)
}
