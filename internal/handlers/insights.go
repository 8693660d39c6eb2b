package handlers

import (
	"log"
	"math"
	"net/http"

	"trip-dashboard/internal/analytics"
	"trip-dashboard/internal/database"
)

// Anomaly is a trip whose speed is a robust outlier
type Anomaly struct {
	RowID    int64   `json:"rowid"`
	SpeedKmh float64 `json:"speed_kmh"`
	Z        float64 `json:"z"`
}

// InsightsHandler serves derived analyses of the trips table
type InsightsHandler struct {
	db    *database.DB
	limit int
}

// NewInsightsHandler creates a new insights handler returning at most limit anomalies
func NewInsightsHandler(db *database.DB, limit int) *InsightsHandler {
	return &InsightsHandler{db: db, limit: limit}
}

// GetAnomalies handles GET /api/insights/anomalies
func (h *InsightsHandler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatParam(r, "z", analytics.DefaultAnomalyThreshold)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	samples, err := h.db.Trips.Speeds(r.Context(), filterFromRequest(r))
	if err != nil {
		log.Printf("ERROR: Failed to get speeds: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get anomalies")
		return
	}

	speeds := make([]float64, len(samples))
	for i, s := range samples {
		speeds[i] = s.SpeedKmh
	}

	flagged := []Anomaly{}
	for i, z := range analytics.RobustZScores(speeds) {
		if math.Abs(z) < threshold {
			continue
		}
		flagged = append(flagged, Anomaly{
			RowID:    samples[i].RowID,
			SpeedKmh: samples[i].SpeedKmh,
			Z:        z,
		})
		if len(flagged) == h.limit {
			break
		}
	}

	writeJSON(w, http.StatusOK, flagged)
}
