package cmd_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/cmd/identityctl/cmd"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestKeygen(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		out, err := run(t, "", "keygen")
		require.NoError(t, err)

		key, err := jwtx.ParseKeyMaterial(out)
		require.NoError(t, err)
		require.Equal(t, jwtx.MinHMACKeySize, key.Len())
	})

	t.Run("custom size", func(t *testing.T) {
		out, err := run(t, "", "keygen", "--size", "128")
		require.NoError(t, err)

		key, err := jwtx.ParseKeyMaterial(out)
		require.NoError(t, err)
		require.Equal(t, 128, key.Len())
	})

	t.Run("too small", func(t *testing.T) {
		_, err := run(t, "", "keygen", "--size", "16")
		require.Error(t, err)
	})

	t.Run("sealed", func(t *testing.T) {
		t.Setenv(cryptox.MasterKeyEnv, "keygen-test-master")
		cryptox.ResetMasterKey()
		t.Cleanup(cryptox.ResetMasterKey)

		out, err := run(t, "", "keygen", "--seal")
		require.NoError(t, err)
		require.False(t, strings.HasPrefix(out, "base64:"))

		sealed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(out))
		require.NoError(t, err)
		raw, err := cryptox.OpenSecret(sealed)
		require.NoError(t, err)
		require.Len(t, raw, jwtx.MinHMACKeySize)
	})
}

func TestUserCreate(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "identity.db")
	pepper := filepath.Join(dir, "pepper")

	out, err := run(t, "correct-horse\n",
		"user", "create",
		"--db", db,
		"--pepper", pepper,
		"--login", "carol",
		"--email", "carol@example.com",
		"--password-stdin",
		"--role", "user",
		"--role", "admin",
	)
	require.NoError(t, err)
	require.Contains(t, out, "created user carol")

	st, err := sqlite.NewStore(sqlite.DSN(db))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ids := store.NewIdentityAdapter(st)
	p, err := ids.FindByLogin(t.Context(), "CAROL")
	require.NoError(t, err)
	require.NotNil(t, p)

	ok, err := ids.VerifyPassword(t.Context(), p, "correct-horse")
	require.NoError(t, err)
	require.True(t, ok)

	roles, err := ids.RolesOf(t.Context(), p)
	require.NoError(t, err)
	require.Equal(t, []string{"user", "admin"}, roles)

	t.Run("duplicate", func(t *testing.T) {
		_, err := run(t, "", "user", "create", "--db", db, "--pepper", pepper,
			"--login", "carol", "--password", "another-pass")
		require.Error(t, err)
	})

	t.Run("both password sources", func(t *testing.T) {
		_, err := run(t, "x\n", "user", "create", "--db", db, "--pepper", pepper,
			"--login", "dave", "--password", "another-pass", "--password-stdin")
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req identitysdk.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "s3cret-pass" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identitysdk.TokenResponse{Token: "tok-" + req.Login, Expires: expires})
	}))
	t.Cleanup(srv.Close)

	t.Run("token only", func(t *testing.T) {
		out, err := run(t, "", "login", "--url", srv.URL, "--login", "alice", "--password", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, "tok-alice\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "s3cret-pass\n", "login", "--url", srv.URL, "--login", "alice", "--password-stdin", "--json")
		require.NoError(t, err)

		var tok identitysdk.TokenResponse
		require.NoError(t, json.Unmarshal([]byte(out), &tok))
		require.Equal(t, "tok-alice", tok.Token)
		require.True(t, expires.Equal(tok.Expires))
	})

	t.Run("bad password", func(t *testing.T) {
		_, err := run(t, "", "login", "--url", srv.URL, "--login", "alice", "--password", "wrong-pass")
		require.ErrorIs(t, err, identitysdk.ErrInvalidCredentials)
	})
}
