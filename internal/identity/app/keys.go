package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
)

// SigningKeyEnv holds the signing key when no key file is configured.
const SigningKeyEnv = "AUTH_SIGNING_KEY"

// NewKeyProvider picks the key source from cfg. The key is read once and
// shared afterwards.
func NewKeyProvider(cfg Config) *jwtx.CachedKeyProvider {
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
	}

	var inner jwtx.KeyProvider = jwtx.EnvKeyProvider{Var: SigningKeyEnv}
	if cfg.SigningKeyFile != "" {
		inner = jwtx.FileKeyProvider{Path: cfg.SigningKeyFile, Sealed: cfg.SigningKeySealed}
	}
	return jwtx.NewCachedKeyProvider(inner)
}

// InitSigningKey resolves the signing key so a misconfigured service fails
// at startup rather than on first login.
func InitSigningKey(ctx context.Context, cfg Config, logger *slog.Logger) (*jwtx.CachedKeyProvider, jwtx.SigningKey, error) {
	keys := NewKeyProvider(cfg)

	key, err := keys.Resolve(ctx)
	if err != nil {
		return nil, jwtx.SigningKey{}, fmt.Errorf("%w: %w", service.ErrConfiguration, err)
	}

	source := SigningKeyEnv
	if cfg.SigningKeyFile != "" {
		source = cfg.SigningKeyFile
	}
	logger.Info("signing key loaded",
		"source", source,
		"sealed", cfg.SigningKeySealed,
		"bytes", key.Len(),
		"alg", jwtx.NewHMACSigner(cfg.Issuer).Alg(),
	)
	return keys, key, nil
}
