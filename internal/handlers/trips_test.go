package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrips(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(db)
	seedTrips(t, db)

	handler := NewTripHandler(db)

	t.Run("defaults", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/trips", nil)
		w := httptest.NewRecorder()

		handler.GetTrips(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var trips []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trips))
		require.Len(t, trips, 6)

		first := trips[0]
		assert.Equal(t, "2024-01-01 08:00:00", first["pickup_datetime"])
		assert.Equal(t, "132", first["pickup_zone"])
		assert.Equal(t, 600.0, first["duration_sec"])
		assert.Equal(t, 3.1, first["fare_per_km"])
		assert.Contains(t, first, "dropoff_datetime")
		assert.Nil(t, first["dropoff_datetime"])
	})

	t.Run("limit offset and date range", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/trips?limit=2&offset=1&start=2024-01-02", nil)
		w := httptest.NewRecorder()

		handler.GetTrips(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var trips []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trips))
		require.Len(t, trips, 2)
		assert.Equal(t, "2024-01-02 11:00:00", trips[0]["pickup_datetime"])
		assert.Equal(t, "2024-01-03 12:00:00", trips[1]["pickup_datetime"])
	})

	t.Run("empty result is an array", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/trips?start=2030-01-01", nil)
		w := httptest.NewRecorder()

		handler.GetTrips(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	for _, query := range []string{"limit=abc", "limit=-1", "offset=x"} {
		t.Run("bad request "+query, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/trips?"+query, nil)
			w := httptest.NewRecorder()

			handler.GetTrips(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body.Error, "invalid")
		})
	}
}

func TestGetTrips_DatabaseError(t *testing.T) {
	db := setupTestDB(t)
	db.Close()

	handler := NewTripHandler(db)
	req := httptest.NewRequest("GET", "/api/trips", nil)
	w := httptest.NewRecorder()

	handler.GetTrips(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to get trips"}`, w.Body.String())
}
