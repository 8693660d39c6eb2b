package handlers

import (
	"log"
	"net/http"

	"trip-dashboard/internal/database"
)

const defaultTripsLimit = 100

// TripHandler handles HTTP requests for trip records
type TripHandler struct {
	db *database.DB
}

// NewTripHandler creates a new trip handler
func NewTripHandler(db *database.DB) *TripHandler {
	return &TripHandler{db: db}
}

// GetTrips handles GET /api/trips
func (h *TripHandler) GetTrips(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultTripsLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	offset, err := intParam(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trips, err := h.db.Trips.List(r.Context(), filterFromRequest(r), limit, offset)
	if err != nil {
		log.Printf("ERROR: Failed to get trips: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get trips")
		return
	}

	writeJSON(w, http.StatusOK, trips)
}
