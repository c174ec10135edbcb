package http

import (
	"net/http"

	"github.com/credstack/authd/internal/authd/service"
	"github.com/credstack/authd/pkg/authsdk"
	"github.com/credstack/authd/pkg/httpx"
)

// LogoutHandler serves POST /v1/auth/logout.
// Revokes the bearer token presented in the Authorization header.
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "successfully logged out",
	})
}
