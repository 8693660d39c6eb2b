package handlers

import (
	"log"
	"net/http"

	"trip-dashboard/internal/database"
)

// HealthHandler serves the API liveness probe
type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck handles GET /api/health. The API only counts as up while the
// trips database answers a ping.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.IsHealthy(); err != nil {
		log.Printf("ERROR: Trips database unreachable: %v", err)
		writeError(w, http.StatusServiceUnavailable, "trips database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
