package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
)

var sampleData = []identitysdk.DataItem{
	{ID: 1, Name: "Name1"},
	{ID: 2, Name: "Name2"},
	{ID: 3, Name: "Name3"},
}

// DataHandler godoc
//
//	@Summary		Sample protected data
//	@Description	Returns a fixed list. Exists so clients can check that their token is accepted.
//	@Tags			Token
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		identitysdk.DataItem
//	@Failure		401	{object}	identitysdk.ErrorResponse	"Missing, invalid or expired token"
//	@Router			/api/token-auth/data [get].
func DataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, sampleData)
	}
}
