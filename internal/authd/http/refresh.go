package http

import (
	"net/http"
	"strings"

	"github.com/credstack/authd/internal/authd/service"
	"github.com/credstack/authd/pkg/authsdk"
	"github.com/credstack/authd/pkg/httpx"
)

// RefreshHandler serves POST /v1/auth/refresh.
// Accepts application/x-www-form-urlencoded with a refresh_token field and
// returns a fresh access token. The refresh token is not rotated.
type RefreshHandler struct {
	AuthService *service.AuthService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	refreshToken := strings.TrimSpace(r.PostForm.Get("refresh_token"))
	if refreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	access, err := h.AuthService.Refresh(r.Context(), refreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}
