package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

var ErrUserExists = errors.New("user already exists")

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// CreateUser validates and stores a new user, creating any roles it names
// that do not exist yet. Roles are assigned in the order given.
func (s *UserService) CreateUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	if err := validateNewUser(nu); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(nu.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Login:        strings.TrimSpace(nu.Login),
		Email:        strings.TrimSpace(nu.Email),
		DisplayName:  strings.TrimSpace(nu.DisplayName),
		PasswordHash: hash,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return createUserTx(ctx, tx, u, nu.Roles)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrUserExists
	}
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created",
		slog.String("user_id", u.ID),
		slog.String("login", u.Login),
		slog.Any("roles", nu.Roles),
	)
	return u, nil
}

// createUserTx inserts u and assigns roles by name, creating missing ones.
func createUserTx(ctx context.Context, tx store.Tx, u domain.User, roles []string) error {
	if err := tx.Users().CreateUser(ctx, u); err != nil {
		return err
	}

	roleIDs := make([]string, 0, len(roles))
	for _, name := range roles {
		id, err := ensureRole(ctx, tx, name)
		if err != nil {
			return fmt.Errorf("role %q: %w", name, err)
		}
		roleIDs = append(roleIDs, id)
	}
	return tx.Users().SetRoles(ctx, u.ID, roleIDs)
}

func ensureRole(ctx context.Context, tx store.Tx, name string) (string, error) {
	role, err := tx.Roles().GetRoleByName(ctx, name)
	if err == nil {
		return role.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	role = domain.Role{ID: idx.New().String(), Name: name}
	if err := tx.Roles().CreateRole(ctx, role); err != nil {
		return "", err
	}
	return role.ID, nil
}

func validateNewUser(nu domain.NewUser) error {
	errs := make(map[string]string)
	identitysdk.ValidateLogin(errs, "login", nu.Login)
	identitysdk.ValidateEmail(errs, "email", nu.Email)
	identitysdk.ValidatePassword(errs, "password", nu.Password)
	identitysdk.ValidateRoles(errs, "roles", nu.Roles)

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
