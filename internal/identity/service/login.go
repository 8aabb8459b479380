package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/aussiebroadwan/identity/pkg/tokencache"
)

// LoginService exchanges credentials for a bearer token. A principal that
// still holds a live token gets that token back instead of a new one.
type LoginService struct {
	Identities IdentityStore
	Cache      *tokencache.Cache
	Signer     *jwtx.HMACSigner
	Keys       jwtx.KeyProvider

	// TTL is the lifetime of minted tokens. Zero means jwtx.DefaultTokenTTL.
	TTL time.Duration
}

func NewLoginService(
	identities IdentityStore,
	cache *tokencache.Cache,
	signer *jwtx.HMACSigner,
	keys jwtx.KeyProvider,
	ttl time.Duration,
) *LoginService {
	return &LoginService{
		Identities: identities,
		Cache:      cache,
		Signer:     signer,
		Keys:       keys,
		TTL:        ttl,
	}
}

// Login authenticates login/password and returns a token for the
// principal.
//
// Blank input fails with ErrInvalidArgument before the store is touched.
// Unknown logins and wrong passwords both fail with a bare
// ErrUnauthenticated. Store, key and signer faults wrap ErrInfrastructure,
// ErrConfiguration and ErrSigning respectively.
//
// Two concurrent logins for one principal may both mint; the later cache
// write wins and both tokens stay valid until they expire.
func (s *LoginService) Login(ctx context.Context, login, password string) (domain.TokenResult, error) {
	if isBlank(login) || isBlank(password) {
		return domain.TokenResult{}, fmt.Errorf("%w: login and password are required", ErrInvalidArgument)
	}

	l := slogx.FromContext(ctx)

	p, err := s.Identities.FindByLogin(ctx, login)
	if err != nil {
		l.Error("identity lookup failed", slog.Any("error", err))
		return domain.TokenResult{}, fmt.Errorf("%w: %w", ErrInfrastructure, err)
	}
	if p == nil {
		l.Debug("login rejected")
		return domain.TokenResult{}, ErrUnauthenticated
	}

	ok, err := s.Identities.VerifyPassword(ctx, p, password)
	if err != nil {
		l.Error("password verification failed", slog.String("sub", p.ID), slog.Any("error", err))
		return domain.TokenResult{}, fmt.Errorf("%w: %w", ErrInfrastructure, err)
	}
	if !ok {
		l.Debug("login rejected", slog.String("sub", p.ID))
		return domain.TokenResult{}, ErrUnauthenticated
	}

	if rec, hit := s.Cache.TryGet(p.ID); hit {
		l.Debug("token cache hit",
			slog.String("sub", p.ID),
			slog.String("token_fp", cryptox.FingerprintToken(rec.Token)),
		)
		return domain.TokenResult{Token: rec.Token, ExpiresAt: rec.ExpiresAt}, nil
	}
	l.Debug("token cache miss", slog.String("sub", p.ID))

	return s.mint(ctx, p)
}

func (s *LoginService) mint(ctx context.Context, p *domain.Principal) (domain.TokenResult, error) {
	l := slogx.FromContext(ctx)

	roles, err := s.Identities.RolesOf(ctx, p)
	if err != nil {
		l.Error("role lookup failed", slog.String("sub", p.ID), slog.Any("error", err))
		return domain.TokenResult{}, fmt.Errorf("%w: %w", ErrInfrastructure, err)
	}

	cs, err := BuildClaims(p.WithRoles(roles))
	if err != nil {
		return domain.TokenResult{}, err
	}

	key, err := s.Keys.Resolve(ctx)
	if err != nil {
		l.Error("signing key unavailable", slog.Any("error", err))
		return domain.TokenResult{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	token, expiresAt, err := s.Signer.Sign(cs, s.ttl(), key)
	if err != nil {
		l.Error("token signing failed", slog.String("sub", p.ID), slog.Any("error", err))
		return domain.TokenResult{}, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	s.Cache.Set(tokencache.Record{Key: p.ID, Token: token, ExpiresAt: expiresAt})

	l.Info("token issued",
		slog.String("sub", p.ID),
		slog.String("jti", cs.TokenID),
		slog.String("token_fp", cryptox.FingerprintToken(token)),
		slog.Time("expires_at", expiresAt),
	)
	return domain.TokenResult{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *LoginService) ttl() time.Duration {
	if s.TTL == 0 {
		return jwtx.DefaultTokenTTL
	}
	return s.TTL
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
