// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxLen is the input limit of bcrypt; longer inputs are pre-hashed.
const bcryptMaxLen = 72

// Hasher produces and checks self-describing bcrypt digests at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// HashPassword returns a bcrypt digest ($2a$<cost>$<salt><hash>) with a fresh random salt.
func (h *Hasher) HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(normalize(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches digest. A corrupt digest yields false.
func (h *Hasher) VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), normalize(password)) == nil
}

// normalize keeps inputs within bcrypt's limit; both hash and verify go through it.
func normalize(password string) []byte {
	if len(password) <= bcryptMaxLen {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
