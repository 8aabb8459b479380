package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	identityhttp "github.com/aussiebroadwan/identity/internal/identity/http"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/aussiebroadwan/identity/pkg/tokencache"
	"github.com/stretchr/testify/require"
)

const testIssuer = "identity-test"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "identity-http")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type stack struct {
	server *httptest.Server
	store  store.Store
	cache  *tokencache.Cache
}

func newStack(t *testing.T, keys jwtx.KeyProvider, bootstrapToken string) *stack {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "identity.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	var verifyKey jwtx.SigningKey
	if k, err := keys.Resolve(context.Background()); err == nil {
		verifyKey = k
	}

	cache := tokencache.New(tokencache.Options{})
	logger := slogx.Discard()

	r := identityhttp.NewRouter(
		jwtx.NewHMACVerifier(verifyKey, jwtx.VerifyOptions{Issuer: testIssuer}),
		keys, cache, st, logger,
	)
	r.LoginService = service.NewLoginService(
		store.NewIdentityAdapter(st), cache, jwtx.NewHMACSigner(testIssuer), keys, time.Minute,
	)
	r.BootstrapService = &service.BootstrapService{Store: st, Token: bootstrapToken}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &stack{server: srv, store: st, cache: cache}
}

func staticKeys(t *testing.T) jwtx.KeyProvider {
	t.Helper()
	raw, err := cryptox.GenerateSecret(jwtx.MinHMACKeySize)
	require.NoError(t, err)
	return jwtx.StaticKeyProvider{Key: jwtx.NewSigningKey(raw)}
}

func (s *stack) do(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestRouterTokenFlow(t *testing.T) {
	s := newStack(t, staticKeys(t), "")

	users := &service.UserService{Store: s.store}
	_, err := users.CreateUser(context.Background(), domain.NewUser{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
		Roles:    []string{"user", "admin"},
	})
	require.NoError(t, err)

	resp, body := s.do(t, http.MethodPost, "/api/token-auth/login", `{"login":"alice","password":"correct-horse"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NotEmpty(t, resp.Header.Get(slogx.RequestIDHeader))

	var tok identitysdk.TokenResponse
	require.NoError(t, json.Unmarshal(body, &tok))
	require.NotEmpty(t, tok.Token)
	require.Equal(t, 1, s.cache.Len())

	t.Run("second login returns cached token", func(t *testing.T) {
		resp, body := s.do(t, http.MethodPost, "/api/token-auth/login", `{"login":"alice","password":"correct-horse"}`, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var again identitysdk.TokenResponse
		require.NoError(t, json.Unmarshal(body, &again))
		require.Equal(t, tok.Token, again.Token)
		require.True(t, tok.Expires.Equal(again.Expires))
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodPost, "/api/token-auth/login", `{"login":"alice","password":"nope"}`, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("blank credentials", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodPost, "/api/token-auth/login", `{"login":"  ","password":"x"}`, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	bearer := map[string]string{"Authorization": "Bearer " + tok.Token}

	t.Run("data requires token", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodGet, "/api/token-auth/data", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")

		resp, body := s.do(t, http.MethodGet, "/api/token-auth/data", "", bearer)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var items []identitysdk.DataItem
		require.NoError(t, json.Unmarshal(body, &items))
		require.Len(t, items, 3)
		require.Equal(t, "Name1", items[0].Name)
	})

	t.Run("me echoes claims", func(t *testing.T) {
		resp, body := s.do(t, http.MethodGet, "/api/token-auth/me", "", bearer)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var me identitysdk.MeResponse
		require.NoError(t, json.Unmarshal(body, &me))
		require.Equal(t, "alice", me.Username)
		require.Equal(t, "alice@example.com", me.Email)
		require.Equal(t, []string{"user", "admin"}, me.Roles)
		require.True(t, tok.Expires.Equal(me.ExpiresAt))
	})

	t.Run("forged token rejected", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodGet, "/api/token-auth/me", "", map[string]string{
			"Authorization": "Bearer " + tok.Token + "x",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRouterLoginRateLimited(t *testing.T) {
	s := newStack(t, staticKeys(t), "")

	var last *http.Response
	for range httpx.StrictLimit.Burst + 1 {
		last, _ = s.do(t, http.MethodPost, "/api/token-auth/login", `{"login":"mallory","password":"guess"}`, nil)
	}
	require.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	require.NotEmpty(t, last.Header.Get("Retry-After"))
}

func TestRouterHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		s := newStack(t, staticKeys(t), "")

		resp, _ := s.do(t, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := s.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var health identitysdk.HealthResponse
		require.NoError(t, json.Unmarshal(body, &health))
		require.Equal(t, "ok", health.Status)
		require.Equal(t, "0", health.Checks["cache"])
	})

	t.Run("key missing", func(t *testing.T) {
		s := newStack(t, jwtx.StaticKeyProvider{}, "")

		resp, body := s.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var health identitysdk.HealthResponse
		require.NoError(t, json.Unmarshal(body, &health))
		require.Equal(t, "degraded", health.Status)
		require.Equal(t, "unavailable", health.Checks["signer"])

		// Login against a service without a key is a configuration fault.
		_, err := (&service.UserService{Store: s.store}).CreateUser(context.Background(), domain.NewUser{
			Login: "bob", Password: "battery-staple",
		})
		require.NoError(t, err)

		resp, body = s.do(t, http.MethodPost, "/api/token-auth/login", `{"login":"bob","password":"battery-staple"}`, nil)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		require.Contains(t, string(body), identitysdk.ErrorCodeServiceUnavailable)
		require.Empty(t, resp.Header.Get("Retry-After"))
	})
}

func TestRouterReadyzHidesKeyErrors(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "private-keys", "signing.key")
	s := newStack(t, jwtx.FileKeyProvider{Path: keyPath}, "")

	resp, body := s.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.NotContains(t, string(body), "private-keys")
	require.NotContains(t, string(body), "no such file")

	var health identitysdk.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	require.Equal(t, "unavailable", health.Checks["signer"])
}

func TestRouterBootstrap(t *testing.T) {
	req := `{"admin_login":"admin","admin_email":"admin@example.com","admin_password":"bootstrap-pass","roles":["admin"]}`

	t.Run("disabled", func(t *testing.T) {
		s := newStack(t, staticKeys(t), "")
		resp, _ := s.do(t, http.MethodPost, "/v1/bootstrap", req, map[string]string{identitysdk.BootstrapTokenHeader: "x"})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("flow", func(t *testing.T) {
		s := newStack(t, staticKeys(t), "let-me-in")
		hdr := map[string]string{identitysdk.BootstrapTokenHeader: "let-me-in"}

		resp, _ := s.do(t, http.MethodPost, "/v1/bootstrap", req, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = s.do(t, http.MethodPost, "/v1/bootstrap", req, map[string]string{identitysdk.BootstrapTokenHeader: "wrong"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, body := s.do(t, http.MethodPost, "/v1/bootstrap", `{"admin_login":"a","roles":[]}`, hdr)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var verr identitysdk.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &verr))
		require.Contains(t, verr.Details, "admin_login")

		resp, body = s.do(t, http.MethodPost, "/v1/bootstrap", req, hdr)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		var out identitysdk.BootstrapResponse
		require.NoError(t, json.Unmarshal(body, &out))
		require.NotEmpty(t, out.AdminUserID)

		resp, _ = s.do(t, http.MethodPost, "/v1/bootstrap", req, hdr)
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		resp, _ = s.do(t, http.MethodPost, "/api/token-auth/login", `{"login":"admin","password":"bootstrap-pass"}`, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
