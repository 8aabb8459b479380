package app_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/identity/internal/identity/app"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newKeyMaterial(t *testing.T) ([]byte, string) {
	t.Helper()
	raw, err := cryptox.GenerateSecret(jwtx.MinHMACKeySize)
	require.NoError(t, err)
	return raw, jwtx.FormatKeyMaterial(raw)
}

func TestInitSigningKeyFromEnv(t *testing.T) {
	raw, material := newKeyMaterial(t)
	t.Setenv(app.SigningKeyEnv, material)

	keys, key, err := app.InitSigningKey(context.Background(), app.Config{Issuer: "identity"}, slogx.Discard())
	require.NoError(t, err)
	require.True(t, key.Equal(jwtx.NewSigningKey(raw)))

	again, err := keys.Resolve(context.Background())
	require.NoError(t, err)
	require.True(t, again.Equal(key))
}

func TestInitSigningKeyMissing(t *testing.T) {
	t.Setenv(app.SigningKeyEnv, "")
	os.Unsetenv(app.SigningKeyEnv)

	_, _, err := app.InitSigningKey(context.Background(), app.Config{}, slogx.Discard())
	require.ErrorIs(t, err, service.ErrConfiguration)
	require.ErrorIs(t, err, jwtx.ErrKeyMissing)
}

func TestInitSigningKeyFromSealedFile(t *testing.T) {
	dir := t.TempDir()

	masterPath := filepath.Join(dir, "master.key")
	require.NoError(t, os.WriteFile(masterPath, []byte("a master key used only by this test"), 0o600))
	t.Cleanup(cryptox.ResetMasterKey)

	cfg := app.Config{
		SigningKeyFile:   filepath.Join(dir, "signing.key"),
		SigningKeySealed: true,
		MasterKeyPath:    masterPath,
	}

	// NewKeyProvider installs the master key path before sealing below.
	_ = app.NewKeyProvider(cfg)

	raw, _ := newKeyMaterial(t)
	sealed, err := cryptox.SealSecret(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.SigningKeyFile, []byte(base64.StdEncoding.EncodeToString(sealed)), 0o600))

	_, key, err := app.InitSigningKey(context.Background(), cfg, slogx.Discard())
	require.NoError(t, err)
	require.True(t, key.Equal(jwtx.NewSigningKey(raw)))
}
