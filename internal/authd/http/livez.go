package http

import (
	"net/http"
	"time"

	"github.com/credstack/authd/pkg/authsdk"
	"github.com/credstack/authd/pkg/httpx"
)

// LivezHandler returns the liveness probe handler. It answers 200 whenever
// the process is up, regardless of dependency health.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
