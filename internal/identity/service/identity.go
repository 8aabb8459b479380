package service

import (
	"context"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
)

// IdentityStore is the directory login authenticates against.
type IdentityStore interface {
	// FindByLogin returns nil, nil when no principal has that login.
	FindByLogin(ctx context.Context, login string) (*domain.Principal, error)

	// VerifyPassword reports whether password matches. A mismatch is not
	// an error.
	VerifyPassword(ctx context.Context, p *domain.Principal, password string) (bool, error)

	// RolesOf returns role names in a stable order.
	RolesOf(ctx context.Context, p *domain.Principal) ([]string, error)
}
