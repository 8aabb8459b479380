package service_test

import (
	"testing"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/stretchr/testify/require"
)

func TestBuildClaims(t *testing.T) {
	p := &domain.Principal{
		ID:    "01HZALICE",
		Login: "alice",
		Email: "alice@example.com",
		Roles: []string{"b", "a", "c"},
	}

	t.Run("maps principal", func(t *testing.T) {
		cs, err := service.BuildClaims(p)
		require.NoError(t, err)
		require.Equal(t, "01HZALICE", cs.Subject)
		require.Equal(t, "alice", cs.Username)
		require.Equal(t, "alice@example.com", cs.Email)
		require.Equal(t, []string{"b", "a", "c"}, cs.Roles)
		require.NotEmpty(t, cs.TokenID)
	})

	t.Run("fresh token id per call", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			cs, err := service.BuildClaims(p)
			require.NoError(t, err)
			seen[cs.TokenID] = struct{}{}
		}
		require.Len(t, seen, 100)
	})

	t.Run("roles are copied", func(t *testing.T) {
		cs, err := service.BuildClaims(p)
		require.NoError(t, err)
		cs.Roles[0] = "mutated"
		require.Equal(t, "b", p.Roles[0])
	})

	t.Run("nil principal", func(t *testing.T) {
		_, err := service.BuildClaims(nil)
		require.ErrorIs(t, err, service.ErrInvalidArgument)
	})
}
