package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapFailed       = errors.New("bootstrap failed")
)

// BootstrapService seeds an empty store with roles and a first admin.
type BootstrapService struct {
	Store store.Store
	Token string // pre-configured bootstrap token; empty disables bootstrap
}

// Enabled reports whether a bootstrap token is configured.
func (s *BootstrapService) Enabled() bool { return s.Token != "" }

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the roles in req and an admin holding all of them.
// It returns the admin's user ID.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (string, error) {
	l := slogx.FromContext(ctx)

	if !s.Enabled() || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		l.Error("failed to check bootstrap state", slog.Any("error", err))
		return "", ErrBootstrapFailed
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", ErrBootstrapAlready
	}

	if err := validateNewUser(domain.NewUser{
		Login:    req.AdminLogin,
		Email:    req.AdminEmail,
		Password: req.AdminPassword,
		Roles:    req.Roles,
	}); err != nil {
		return "", err
	}

	hash, err := cryptox.HashPassword(req.AdminPassword)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", ErrBootstrapFailed
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Login:        strings.TrimSpace(req.AdminLogin),
		Email:        strings.TrimSpace(req.AdminEmail),
		DisplayName:  strings.TrimSpace(req.AdminDisplayName),
		PasswordHash: hash,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Checked again under the transaction.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return createUserTx(ctx, tx, admin, req.Roles)
	})
	if errors.Is(err, ErrBootstrapAlready) {
		return "", err
	}
	if err != nil {
		l.Error("failed to create admin user",
			slog.String("admin_user_id", admin.ID),
			slog.Any("error", err),
		)
		return "", ErrBootstrapFailed
	}

	l.Info("successfully bootstrapped system",
		slog.String("admin_user_id", admin.ID),
		slog.Any("roles", req.Roles),
	)
	return admin.ID, nil
}
