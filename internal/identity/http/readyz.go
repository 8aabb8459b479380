package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/aussiebroadwan/identity/pkg/tokencache"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the identity store and that the signing key resolves. Reports the token cache size.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	identitysdk.HealthResponse
//	@Failure		503	{object}	identitysdk.HealthResponse	"A dependency is unavailable"
//	@Router			/readyz [get].
func ReadyzHandler(db Pinger, keys jwtx.KeyProvider, cache *tokencache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"signer":   "ok",
			"cache":    strconv.Itoa(cache.Len()),
		}
		status, code := "ok", http.StatusOK

		if err := db.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness: database unavailable", slog.Any("error", err))
			checks["database"] = "unavailable"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		if _, err := keys.Resolve(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness: signing key unavailable", slog.Any("error", err))
			checks["signer"] = "unavailable"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, identitysdk.HealthResponse{Status: status, Checks: checks})
	}
}
