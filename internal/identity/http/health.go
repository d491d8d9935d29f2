package http

import (
	"net/http"
	"time"

	"github.com/vantaworks/identity/internal/identity/store"
	"github.com/vantaworks/identity/pkg/httpx"
)

// HealthResponse is the liveness/readiness probe body.
type HealthResponse struct {
	Status  string        `json:"status" example:"healthy"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// HealthHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning service status, uptime and version.
//	@Description	Always returns 200 OK while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version"
//	@Router			/health [get].
func HealthHandler(version string, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking database connectivity.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, checks"
//	@Failure		503	{object}	HealthResponse	"status, checks - service not ready"
//	@Router			/health/ready [get].
func ReadyHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Database: "ok"}
		status := "healthy"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, HealthResponse{Status: status, Checks: checks})
	}
}
