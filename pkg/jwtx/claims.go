package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued bearer token unless the
// service is configured otherwise.
const DefaultTokenTTL = 10 * time.Minute

// ClaimSet is the identity part of a token: everything except the
// registered time and issuer claims, which the signer owns.
type ClaimSet struct {
	Subject  string
	Email    string
	TokenID  string
	Username string
	Roles    []string
}

// Claims is the full JWT payload.
type Claims struct {
	jwt.RegisteredClaims

	Email    string   `json:"email,omitempty"`
	Username string   `json:"preferred_username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// NewClaims stamps cs with issuer and the iat/nbf/exp window starting at
// now. iat and nbf are truncated to jwt.TimePrecision as they would be on
// the wire; exp is rounded up so the token lives at least ttl.
func NewClaims(cs ClaimSet, issuer string, now time.Time, ttl time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   cs.Subject,
			ID:        cs.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilTime(now.Add(ttl), jwt.TimePrecision)),
		},
		Email:    cs.Email,
		Username: cs.Username,
		Roles:    slices.Clone(cs.Roles),
	}
}

func ceilTime(t time.Time, d time.Duration) time.Time {
	if r := t.Truncate(d); r.Before(t) {
		return r.Add(d)
	}
	return t
}

// ClaimSet extracts the identity part of c.
func (c *Claims) ClaimSet() ClaimSet {
	return ClaimSet{
		Subject:  c.Subject,
		Email:    c.Email,
		TokenID:  c.ID,
		Username: c.Username,
		Roles:    slices.Clone(c.Roles),
	}
}

// HasRole reports whether role is among the token's roles.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Expiry returns the exp claim, or the zero time if it is absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.UTC()
}
