package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "identity-adapter")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func seed(t *testing.T, hash string, roles ...string) (*store.IdentityAdapter, store.Store, domain.User) {
	t.Helper()
	ctx := context.Background()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "identity.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	u := domain.User{
		ID:           idx.New().String(),
		Login:        "alice",
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		PasswordHash: hash,
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	var ids []string
	for _, name := range roles {
		r := domain.Role{ID: idx.New().String(), Name: name}
		require.NoError(t, s.Roles().CreateRole(ctx, r))
		ids = append(ids, r.ID)
	}
	require.NoError(t, s.Users().SetRoles(ctx, u.ID, ids))

	return store.NewIdentityAdapter(s), s, u
}

func TestIdentityAdapter(t *testing.T) {
	ctx := context.Background()

	hash, err := cryptox.HashPassword("hunter2")
	require.NoError(t, err)

	a, _, u := seed(t, hash, "user", "admin")

	t.Run("find by login", func(t *testing.T) {
		p, err := a.FindByLogin(ctx, "ALICE")
		require.NoError(t, err)
		require.NotNil(t, p)
		require.Equal(t, u.ID, p.ID)
		require.Equal(t, "alice@example.com", p.Email)
		require.Empty(t, p.Roles)
	})

	t.Run("unknown login is nil without error", func(t *testing.T) {
		p, err := a.FindByLogin(ctx, "mallory")
		require.NoError(t, err)
		require.Nil(t, p)
	})

	t.Run("verify password", func(t *testing.T) {
		p := u.Principal()

		ok, err := a.VerifyPassword(ctx, p, "hunter2")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = a.VerifyPassword(ctx, p, "hunter3")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("user gone since lookup", func(t *testing.T) {
		gone := &domain.Principal{ID: idx.New().String(), Login: "alice"}

		ok, err := a.VerifyPassword(ctx, gone, "hunter2")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("roles in assignment order", func(t *testing.T) {
		roles, err := a.RolesOf(ctx, u.Principal())
		require.NoError(t, err)
		require.Equal(t, []string{"user", "admin"}, roles)
	})
}

func TestIdentityAdapterMalformedHash(t *testing.T) {
	a, _, u := seed(t, "not-a-hash")

	ok, err := a.VerifyPassword(context.Background(), u.Principal(), "whatever")
	require.ErrorIs(t, err, cryptox.ErrMalformedHash)
	require.False(t, ok)
}

func TestIdentityAdapterUpgradesWeakHash(t *testing.T) {
	ctx := context.Background()

	weak := cryptox.DefaultArgon2Params
	weak.Memory = 1024
	weak.Iterations = 1
	hash, err := cryptox.HashPasswordWithParams("hunter2", weak)
	require.NoError(t, err)

	a, s, u := seed(t, hash)

	ok, err := a.VerifyPassword(ctx, u.Principal(), "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, hash, stored.PasswordHash)
	require.False(t, cryptox.NeedsRehash(stored.PasswordHash, cryptox.DefaultArgon2Params))
	require.NoError(t, cryptox.VerifyPassword("hunter2", stored.PasswordHash))
}
