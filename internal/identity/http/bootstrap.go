package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles one-time system setup.
//
//	@Summary		Bootstrap the identity service
//	@Description	Creates roles and the first admin user. Only available when a bootstrap token is configured, and only while no users exist.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token"
//	@Param			request				body		identitysdk.BootstrapRequest	true	"Admin and roles"
//	@Success		201					{object}	identitysdk.BootstrapResponse
//	@Failure		400					{object}	identitysdk.ErrorResponse	"Invalid body or validation failed"
//	@Failure		401					{object}	identitysdk.ErrorResponse	"Missing or invalid bootstrap token"
//	@Failure		404					{object}	identitysdk.ErrorResponse	"Bootstrap not enabled"
//	@Failure		409					{object}	identitysdk.ErrorResponse	"Already bootstrapped"
//	@Failure		500					{object}	identitysdk.ErrorResponse	"Bootstrap failed"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if !h.BootstrapService.Enabled() {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "bootstrap endpoint is not enabled")
		return
	}

	token := r.Header.Get(identitysdk.BootstrapTokenHeader)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, identitysdk.ErrorCodeUnauthorized,
			"bootstrap token is required in "+identitysdk.BootstrapTokenHeader+" header")
		return
	}

	var req identitysdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, identitysdk.ErrorCodeInvalidRequest, "request body must be valid JSON")
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationError(w, errs)
		return
	}

	l.Info("bootstrapping identity service")
	adminID, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		AdminLogin:       req.AdminLogin,
		AdminEmail:       req.AdminEmail,
		AdminDisplayName: req.AdminDisplayName,
		AdminPassword:    req.AdminPassword,
		Roles:            req.Roles,
	})

	var verr *service.ValidationError
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, identitysdk.BootstrapResponse{
			AdminUserID: adminID,
			Roles:       req.Roles,
		})
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, identitysdk.ErrorCodeUnauthorized, "invalid bootstrap token")
	case errors.Is(err, service.ErrBootstrapAlready):
		httpx.WriteError(w, http.StatusConflict, identitysdk.ErrorCodeConflict, "system has already been bootstrapped")
	case errors.As(err, &verr):
		writeValidationError(w, verr.Fields)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, identitysdk.ErrorCodeServerError, "bootstrap failed")
	}
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	httpx.WriteJSON(w, http.StatusBadRequest, identitysdk.ErrorResponse{
		Error:            identitysdk.ErrorCodeInvalidRequest,
		ErrorDescription: "validation failed for some fields",
		Details:          fields,
	})
}
