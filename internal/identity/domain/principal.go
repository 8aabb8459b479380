package domain

import (
	"slices"
	"time"
)

// Principal is the identity a token is issued for. ID is the stable
// identity key; it becomes the token subject and the cache key.
type Principal struct {
	ID          string
	Login       string
	Email       string
	DisplayName string
	Roles       []string
}

// WithRoles returns a copy of p carrying roles.
func (p Principal) WithRoles(roles []string) *Principal {
	p.Roles = slices.Clone(roles)
	return &p
}

// TokenResult is what a successful login hands back.
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
}
