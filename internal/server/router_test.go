package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-dashboard/internal/cli"
	"trip-dashboard/internal/database"
)

// setupTestServer serves the full router over a temp sqlite database. The
// dashboard page is pointed back at the test server itself.
func setupTestServer(t *testing.T) *httptest.Server {
	tmpfile, err := os.CreateTemp("", "server_*.db")
	require.NoError(t, err)
	tmpfile.Close()
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	db, err := database.Open(tmpfile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	zone := "132"
	speed, fare := 20.0, 12.5
	pickup := "2024-01-01 08:00:00"
	err = db.Trips.InsertBatch(context.Background(), []database.Trip{
		{PickupDatetime: &pickup, PickupZone: &zone, SpeedKmh: &speed, FareAmount: &fare},
	})
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	srv := httptest.NewUnstartedServer(nil)
	selfURL := "http://" + srv.Listener.Addr().String()
	srv.Config.Handler = NewRouter(NewHandlers(db, cli.NewClient(selfURL), 500, logger), logger)
	srv.Start()
	t.Cleanup(srv.Close)

	return srv
}

func TestRouter_APIRoutes(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/api/health", http.StatusOK, `{"status":"ok"}`},
		{"/api/summary/metrics", http.StatusOK, `{"trips":1,"avg_speed_kmh":20,"avg_fare_per_km":null,"total_fare":12.5}`},
		{"/api/summary/top-pickups?k=10", http.StatusOK, `[{"zone":"132","count":1}]`},
		{"/api/insights/anomalies", http.StatusOK, `[]`},
		{"/api/trips?limit=bad", http.StatusBadRequest, `{"error":"invalid limit: bad"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}

func TestRouter_Trips(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/trips?limit=50")
	require.NoError(t, err)
	defer resp.Body.Close()

	var trips []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trips))
	require.Len(t, trips, 1)
	assert.Equal(t, "132", trips[0]["pickup_zone"])
	assert.Nil(t, trips[0]["dropoff_zone"])
}

func TestRouter_DashboardPage(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, string(body), `<span id="kpi-trips">1</span>`)
	assert.Contains(t, string(body), `<span id="kpi-fpkm">-</span>`)
	assert.Contains(t, string(body), "<td>2024-01-01 08:00:00</td>")
}

func TestRouter_NotFound(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/shipments")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
