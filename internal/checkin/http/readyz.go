package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/pkg/checkinsdk"
	"github.com/aussiebroadwan/checkin/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe; 503 when the attendee store cannot be reached.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	checkinsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	checkinsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &checkinsdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, checkinsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
