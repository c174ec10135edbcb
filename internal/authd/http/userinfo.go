package http

import (
	"net/http"

	"github.com/credstack/authd/internal/authd/service"
	"github.com/credstack/authd/pkg/authsdk"
	"github.com/credstack/authd/pkg/httpx"
)

// UserInfoHandler serves GET /v1/users/me.
// Returns the credential record behind the presented bearer token.
type UserInfoHandler struct {
	AuthService *service.AuthService
}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	httpx.WriteJSON(w, http.StatusOK, userView(u))
}
