package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	t.Run("DatabaseReachable", func(t *testing.T) {
		db := setupTestDB(t)
		defer teardownTestDB(db)

		w := httptest.NewRecorder()
		NewHealthHandler(db).HealthCheck(w, httptest.NewRequest("GET", "/api/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("DatabaseClosed", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		w := httptest.NewRecorder()
		NewHealthHandler(db).HealthCheck(w, httptest.NewRequest("GET", "/api/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"trips database unavailable"}`, w.Body.String())
	})
}
