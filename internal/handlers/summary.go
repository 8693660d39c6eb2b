package handlers

import (
	"log"
	"net/http"

	"trip-dashboard/internal/analytics"
	"trip-dashboard/internal/database"
)

const defaultTopPickups = 10

// SummaryHandler serves aggregate views over the trips table
type SummaryHandler struct {
	db *database.DB
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(db *database.DB) *SummaryHandler {
	return &SummaryHandler{db: db}
}

// GetMetrics handles GET /api/summary/metrics
func (h *SummaryHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.db.Trips.Metrics(r.Context(), filterFromRequest(r))
	if err != nil {
		log.Printf("ERROR: Failed to get metrics: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get metrics")
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// GetTopPickups handles GET /api/summary/top-pickups
func (h *SummaryHandler) GetTopPickups(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k", defaultTopPickups)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	zones, err := h.db.Trips.PickupZones(r.Context(), filterFromRequest(r))
	if err != nil {
		log.Printf("ERROR: Failed to get pickup zones: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get top pickups")
		return
	}

	writeJSON(w, http.StatusOK, analytics.TopKFrequent(zones, k))
}
