package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
)

// MeHandler godoc
//
//	@Summary		Describe the caller's token
//	@Tags			Token
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	identitysdk.MeResponse
//	@Failure		401	{object}	identitysdk.ErrorResponse	"Missing, invalid or expired token"
//	@Router			/api/token-auth/me [get].
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := httpx.ClaimsFromContext(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, identitysdk.ErrorCodeInvalidToken, "missing token claims")
			return
		}

		roles := claims.Roles
		if roles == nil {
			roles = []string{}
		}

		httpx.WriteJSON(w, http.StatusOK, identitysdk.MeResponse{
			Subject:   claims.Subject,
			Username:  claims.Username,
			Email:     claims.Email,
			Roles:     roles,
			TokenID:   claims.ID,
			ExpiresAt: claims.Expiry(),
		})
	}
}
