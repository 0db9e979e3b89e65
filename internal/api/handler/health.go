package handler

import (
	"context"
	"net/http"

	"github.com/filedrive/filedrive/internal/api/middleware"
	"github.com/filedrive/filedrive/internal/api/response"
)

// DBPinger checks database connectivity for the readiness endpoint.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health and GET /readiness endpoints.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

type healthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles the liveness check.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	response.Success(w, http.StatusOK, healthData{Status: "ok", Version: h.version}, requestID)
}

// Readiness handles the readiness check, verifying database connectivity.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			response.Success(w, http.StatusServiceUnavailable, healthData{Status: "unavailable", Version: h.version}, requestID)
			return
		}
	}

	response.Success(w, http.StatusOK, healthData{Status: "ok", Version: h.version}, requestID)
}
