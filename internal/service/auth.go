// Package service contains application services for authentication, users, posts and likes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/and161185/social-api/internal/repository"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, digest string) bool
}

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Issue(subject uuid.UUID, now time.Time) (model.AccessToken, error)
	Verify(raw string, now time.Time) (model.TokenData, error)
}

// AuthService implements the login flow and bearer token verification.
type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenManager
	now    func() time.Time

	// compared against on unknown emails so both failure paths cost one bcrypt run
	dummyDigest string
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenManager) (*AuthService, error) {
	dummy, err := hasher.HashPassword("social-api/unknown-user")
	if err != nil {
		return nil, fmt.Errorf("dummy digest: %w", err)
	}
	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		now:         time.Now,
		dummyDigest: dummy,
	}, nil
}

// Login checks the credentials and issues an access token for the user.
// Unknown email and wrong password both yield errs.ErrIncorrectCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.AccessToken, error) {
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		s.hasher.VerifyPassword(password, s.dummyDigest)
		return model.AccessToken{}, errs.ErrIncorrectCredentials
	case err != nil:
		return model.AccessToken{}, fmt.Errorf("login lookup: %w", err)
	}

	if !s.hasher.VerifyPassword(password, u.PasswordHash) {
		return model.AccessToken{}, errs.ErrIncorrectCredentials
	}
	return s.tokens.Issue(u.ID, s.now())
}

// Authenticate verifies a raw bearer token against the current time.
// It does not consult the user store.
func (s *AuthService) Authenticate(raw string) (model.TokenData, error) {
	return s.tokens.Verify(raw, s.now())
}
