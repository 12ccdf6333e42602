// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication. Every token/guard failure wraps it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrIncorrectCredentials indicates a failed login (unknown email or wrong password).
	ErrIncorrectCredentials = errors.New("incorrect email or password")

	// ErrForbidden indicates the caller is authenticated but does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates a request that failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// Token and guard failures. They all collapse to a single 401 at the boundary.
var (
	ErrMissingCredentials = fmt.Errorf("missing credentials: %w", ErrUnauthorized)
	ErrMalformedToken     = fmt.Errorf("malformed token: %w", ErrUnauthorized)
	ErrSignatureInvalid   = fmt.Errorf("signature invalid: %w", ErrUnauthorized)
	ErrMissingSubject     = fmt.Errorf("missing subject: %w", ErrUnauthorized)
	ErrExpired            = fmt.Errorf("token expired: %w", ErrUnauthorized)
)

// Resource-specific misses and conflicts.
var (
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)
	ErrLikeNotFound = fmt.Errorf("like %w", ErrNotFound)

	// ErrAlreadyLiked indicates a second like for the same (post, user) pair.
	ErrAlreadyLiked = fmt.Errorf("like %w", ErrAlreadyExists)
)
