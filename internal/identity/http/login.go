package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
)

// Authenticator exchanges credentials for a token. Implemented by
// *service.LoginService.
type Authenticator interface {
	Login(ctx context.Context, login, password string) (domain.TokenResult, error)
}

type LoginHandler struct {
	Authenticator Authenticator
}

// ServeHTTP handles credential login.
//
//	@Summary		Obtain a bearer token
//	@Description	Authenticates login and password. A caller whose previous token is still valid gets that same token back.
//	@Tags			Token
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	identitysdk.TokenResponse	"Signed token and its expiry"
//	@Failure		400		{object}	identitysdk.ErrorResponse	"Malformed body or blank credentials"
//	@Failure		401		{object}	identitysdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	identitysdk.ErrorResponse	"Too many attempts"
//	@Failure		500		{object}	identitysdk.ErrorResponse	"Token could not be signed"
//	@Failure		503		{object}	identitysdk.ErrorResponse	"Identity store or signing key unavailable"
//	@Router			/api/token-auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, identitysdk.ErrorCodeInvalidRequest,
			"request body must be a JSON object with login and password")
		return
	}

	res, err := h.Authenticator.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeLoginError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.TokenResponse{
		Token:   res.Token,
		Expires: res.ExpiresAt,
	})
}

// writeLoginError maps login failures to responses. Fault details stay in
// the logs.
func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		httpx.WriteError(w, http.StatusBadRequest, identitysdk.ErrorCodeInvalidRequest,
			"login and password are required")
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, identitysdk.ErrorCodeUnauthorized,
			"invalid credentials")
	case errors.Is(err, service.ErrInfrastructure):
		w.Header().Set("Retry-After", "1")
		httpx.WriteError(w, http.StatusServiceUnavailable, identitysdk.ErrorCodeTemporarilyUnavailable,
			"identity store unavailable")
	case errors.Is(err, service.ErrConfiguration):
		httpx.WriteError(w, http.StatusServiceUnavailable, identitysdk.ErrorCodeServiceUnavailable,
			"token issuance is not configured")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, identitysdk.ErrorCodeServerError,
			"token could not be issued")
	}
}
