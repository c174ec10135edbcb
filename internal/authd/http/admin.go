package http

import (
	"net/http"

	"github.com/credstack/authd/internal/authd/service"
	"github.com/credstack/authd/pkg/authsdk"
	"github.com/credstack/authd/pkg/httpx"
	"github.com/credstack/authd/pkg/slogx"
)

// PurgeTokensHandler serves POST /v1/admin/purge-tokens.
// Deletes blacklist entries for tokens that have already expired. The
// housekeeping worker does this on a schedule; the endpoint exists for
// on-demand runs. Requires a valid bearer token.
type PurgeTokensHandler struct {
	AuthService *service.AuthService
}

func (h *PurgeTokensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	u, err := h.AuthService.Authorize(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := service.RequireActive(u); err != nil {
		writeServiceError(w, r, err)
		return
	}

	purged, err := h.AuthService.Revoker.PurgeExpired(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("manual blacklist purge",
		"requested_by", u.Username, "purged", purged)
	httpx.WriteJSON(w, http.StatusOK, authsdk.PurgeResponse{Purged: purged})
}
