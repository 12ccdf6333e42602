package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/and161185/social-api/internal/repository"
)

// UserService registers and looks up users.
type UserService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// Register creates a user with a freshly hashed password.
func (s *UserService) Register(ctx context.Context, email, password string, phone *string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: empty email/password", errs.ErrInvalidInput)
	}
	if phone != nil && strings.TrimSpace(*phone) == "" {
		phone = nil
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	digest, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{ID: uid, Email: email, PasswordHash: digest, PhoneNumber: phone}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}
