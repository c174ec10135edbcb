package http

import (
	"errors"
	"net/http"

	"github.com/credstack/authd/internal/authd/service"
	"github.com/credstack/authd/pkg/authsdk"
	"github.com/credstack/authd/pkg/slogx"
)

// writeServiceError maps a service-layer failure onto the wire error
// vocabulary. Anything unmapped is logged and surfaces as a 500; internal
// detail never reaches the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrAccountDisabled):
		authsdk.ErrAccountDisabled.WriteError(w)
	case errors.Is(err, service.ErrAlreadyRegistered):
		authsdk.ErrAlreadyRegistered.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenTypeMismatch):
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrTokenRevoked):
		authsdk.ErrTokenRevoked.WriteError(w)
	case errors.Is(err, service.ErrRateLimited):
		authsdk.ErrRateLimited.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
// Returns the empty string if the header is missing or malformed.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !equalASCIIFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

// equalASCIIFold compares two ASCII strings case-insensitively without
// allocating. The scheme name in Authorization headers is case-insensitive.
func equalASCIIFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
