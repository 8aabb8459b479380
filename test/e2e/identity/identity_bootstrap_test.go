//go:build e2e

package identity_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/stretchr/testify/require"
)

func TestBootstrapSuccess(t *testing.T) {
	client := setupIdentityContainer(t)

	adminID := bootstrapService(t, client)
	t.Logf("Admin User ID: %s", adminID)

	tok, err := client.Login(t.Context(), adminLogin, adminPassword)
	require.NoError(t, err)

	me, err := client.GetMe(t.Context(), tok.Token)
	require.NoError(t, err)
	require.Equal(t, adminID, me.Subject)
	require.Equal(t, adminLogin, me.Username)
	require.Equal(t, defaultRoles, me.Roles)
}

// TestBootstrapOnlyOnce verifies a second bootstrap is refused with 409.
func TestBootstrapOnlyOnce(t *testing.T) {
	client := setupIdentityContainer(t)
	bootstrapService(t, client)

	_, err := client.Bootstrap(t.Context(), bootstrapToken, identitysdk.BootstrapRequest{
		AdminLogin:    "another-admin",
		AdminPassword: "AnotherPassword123!",
		Roles:         []string{"admin"},
	})
	apiErr := requireStatus(t, err, http.StatusConflict)
	require.Equal(t, identitysdk.ErrorCodeConflict, apiErr.Code)
}

func TestBootstrapWrongToken(t *testing.T) {
	client := setupIdentityContainer(t)

	_, err := client.Bootstrap(t.Context(), "not-the-token", identitysdk.BootstrapRequest{
		AdminLogin:    adminLogin,
		AdminPassword: adminPassword,
		Roles:         defaultRoles,
	})
	requireStatus(t, err, http.StatusUnauthorized)
}
