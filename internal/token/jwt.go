// Package token issues and verifies stateless HMAC-signed access tokens.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
)

// Manager signs and verifies access tokens with a fixed secret, algorithm and TTL.
type Manager struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
	parser *jwt.Parser
}

// NewManager constructs a Manager. Only symmetric HMAC algorithms are accepted.
func NewManager(secret []byte, alg string, ttl time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q (want HS256, HS384 or HS512)", alg)
	}
	return &Manager{
		key:    secret,
		method: method,
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithoutClaimsValidation(), // expiry is checked against the caller's clock
		),
	}, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a signed token for subject that expires at now + TTL.
func (m *Manager) Issue(subject uuid.UUID, now time.Time) (model.AccessToken, error) {
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.key)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	return model.AccessToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks the signature before decoding any claim, then the subject, then expiry.
func (m *Manager) Verify(raw string, now time.Time) (model.TokenData, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return model.TokenData{}, errs.ErrMalformedToken
	}

	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return model.TokenData{}, errs.ErrSignatureInvalid
	}
	if err := m.method.Verify(parts[0]+"."+parts[1], sig, m.key); err != nil {
		return model.TokenData{}, errs.ErrSignatureInvalid
	}

	var claims jwt.RegisteredClaims
	if _, err := m.parser.ParseWithClaims(raw, &claims, m.keyFunc); err != nil {
		return model.TokenData{}, fmt.Errorf("%w: %v", errs.ErrMalformedToken, err)
	}

	if claims.Subject == "" {
		return model.TokenData{}, errs.ErrMissingSubject
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return model.TokenData{}, fmt.Errorf("%w: bad subject", errs.ErrMalformedToken)
	}

	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return model.TokenData{}, errs.ErrExpired
	}

	return model.TokenData{UserID: id}, nil
}

func (m *Manager) keyFunc(*jwt.Token) (any, error) { return m.key, nil }
