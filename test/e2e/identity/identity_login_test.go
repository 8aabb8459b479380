//go:build e2e

package identity_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesToken(t *testing.T) {
	client := setupIdentityContainer(t)
	bootstrapService(t, client)

	tok, err := client.Login(t.Context(), adminLogin, adminPassword)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.True(t, tok.Expires.After(time.Now()), "token should expire in the future")
	require.Equal(t, tok.Expires.Truncate(time.Second), tok.Expires, "expiry has whole second precision")

	data, err := client.GetData(t.Context(), tok.Token)
	require.NoError(t, err)
	require.Equal(t, []identitysdk.DataItem{
		{ID: 1, Name: "Name1"},
		{ID: 2, Name: "Name2"},
		{ID: 3, Name: "Name3"},
	}, data)
}

// TestLoginReusesToken checks a repeated login inside the token lifetime
// hands back the same token.
func TestLoginReusesToken(t *testing.T) {
	client := setupIdentityContainer(t)
	bootstrapService(t, client)

	first, err := client.Login(t.Context(), adminLogin, adminPassword)
	require.NoError(t, err)

	second, err := client.Login(t.Context(), "ADMIN", adminPassword)
	require.NoError(t, err)

	require.Equal(t, first.Token, second.Token)
	require.True(t, first.Expires.Equal(second.Expires))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	client := setupIdentityContainer(t)
	bootstrapService(t, client)

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"wrong password", adminLogin, "definitely-wrong"},
		{"unknown login", "nobody", adminPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Login(t.Context(), tt.login, tt.password)
			require.ErrorIs(t, err, identitysdk.ErrInvalidCredentials)
		})
	}
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	client := setupIdentityContainer(t)

	_, err := client.GetData(t.Context(), "")
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = client.GetMe(t.Context(), "not.a.token")
	apiErr := requireStatus(t, err, http.StatusUnauthorized)
	require.Equal(t, identitysdk.ErrorCodeInvalidToken, apiErr.Code)
}
