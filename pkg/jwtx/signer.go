package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSigning reports a token that could not be produced.
var ErrSigning = errors.New("jwtx: signing failed")

// HMACSigner issues HS512 tokens. The key is passed per call so the signer
// holds no secret state.
type HMACSigner struct {
	Issuer string

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewHMACSigner(issuer string) *HMACSigner {
	return &HMACSigner{Issuer: issuer}
}

// Alg returns the JWS algorithm name.
func (s *HMACSigner) Alg() string { return jwt.SigningMethodHS512.Alg() }

// Sign encodes cs with an expiry of now+ttl, rounded up to the token's
// time precision. The returned expiry is the exp claim exactly as embedded
// in the token.
func (s *HMACSigner) Sign(cs ClaimSet, ttl time.Duration, key SigningKey) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("%w: ttl must be positive, got %s", ErrSigning, ttl)
	}
	if key.IsZero() {
		return "", time.Time{}, fmt.Errorf("%w: empty key", ErrSigning)
	}

	now := s.now()
	claims := NewClaims(cs, s.Issuer, now, ttl)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(key.b)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return token, claims.ExpiresAt.UTC(), nil
}

func (s *HMACSigner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
