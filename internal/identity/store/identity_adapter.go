package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// IdentityAdapter exposes a Store as the identity collaborator the login
// flow depends on.
type IdentityAdapter struct {
	Store Store
}

func NewIdentityAdapter(s Store) *IdentityAdapter {
	return &IdentityAdapter{Store: s}
}

// FindByLogin returns nil, nil for an unknown login.
func (a *IdentityAdapter) FindByLogin(ctx context.Context, login string) (*domain.Principal, error) {
	u, err := a.Store.Users().GetUserByLogin(ctx, login)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.Principal(), nil
}

// VerifyPassword checks password against the stored hash. A wrong password
// or a user removed since the lookup is (false, nil); an unreadable hash is
// an error. Hashes made with old cost parameters are upgraded after a
// successful check.
func (a *IdentityAdapter) VerifyPassword(ctx context.Context, p *domain.Principal, password string) (bool, error) {
	u, err := a.Store.Users().GetUserByID(ctx, p.ID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch err := cryptox.VerifyPassword(password, u.PasswordHash); {
	case errors.Is(err, cryptox.ErrPasswordMismatch):
		return false, nil
	case err != nil:
		return false, err
	}

	if cryptox.NeedsRehash(u.PasswordHash, cryptox.DefaultArgon2Params) {
		a.rehash(ctx, u.ID, password)
	}
	return true, nil
}

// RolesOf returns the principal's role names in assignment order.
func (a *IdentityAdapter) RolesOf(ctx context.Context, p *domain.Principal) ([]string, error) {
	return a.Store.Users().RoleNames(ctx, p.ID)
}

func (a *IdentityAdapter) rehash(ctx context.Context, userID, password string) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err == nil {
		err = a.Store.Users().UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		l.Warn("password rehash failed", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("user_id", userID))
}
