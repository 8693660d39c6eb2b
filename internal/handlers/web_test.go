package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-dashboard/internal/cli"
	"trip-dashboard/internal/dashboard"
	"trip-dashboard/internal/database"
)

func newTestAPI(t *testing.T, db *database.DB) *httptest.Server {
	mux := http.NewServeMux()
	summary := NewSummaryHandler(db)
	mux.HandleFunc("GET /api/summary/metrics", summary.GetMetrics)
	mux.HandleFunc("GET /api/summary/top-pickups", summary.GetTopPickups)
	mux.HandleFunc("GET /api/trips", NewTripHandler(db).GetTrips)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestServeDashboard(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(db)
	seedTrips(t, db)

	api := newTestAPI(t, db)
	handler := NewDashboardPageHandler(cli.NewClient(api.URL), nil)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeDashboard(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, `<span id="kpi-trips">6</span>`)
	assert.Contains(t, body, `<span id="kpi-speed">47.83</span>`)
	assert.Contains(t, body, `<span id="kpi-fare">96.5</span>`)
	assert.Equal(t, 6, strings.Count(body, "<tr><td>"))
	assert.Contains(t, body, "<td>2024-01-01 08:00:00</td>")
	assert.NotContains(t, body, `id="notice"`)
}

func TestServeDashboard_DateRange(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(db)
	seedTrips(t, db)

	api := newTestAPI(t, db)
	handler := NewDashboardPageHandler(cli.NewClient(api.URL), nil)

	req := httptest.NewRequest("GET", "/?start=2024-01-03", nil)
	w := httptest.NewRecorder()
	handler.ServeDashboard(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<span id="kpi-trips">2</span>`)
	assert.Contains(t, body, `value="2024-01-03"`)
	assert.Equal(t, 2, strings.Count(body, "<tr><td>"))
}

func TestServeDashboard_FormRange(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(db)
	seedTrips(t, db)

	api := newTestAPI(t, db)
	handler := NewDashboardPageHandler(cli.NewClient(api.URL), nil)

	// Values arrive exactly as typed into the form
	form := url.Values{"start": {"2024-01-01"}, "end": {"2024-01-02 23:59:59"}}
	req := httptest.NewRequest("GET", "/?"+form.Encode(), nil)
	w := httptest.NewRecorder()
	handler.ServeDashboard(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<span id="kpi-trips">4</span>`)
	assert.Equal(t, 4, strings.Count(body, "<tr><td>"))
	assert.Contains(t, body, `<input type="text" name="start" id="start" placeholder="2024-01-01 00:00:00" value="2024-01-01">`)
	assert.Contains(t, body, `value="2024-01-02 23:59:59"`)
	assert.NotContains(t, body, "datetime-local")
}

func TestServeDashboard_APIFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database is locked", http.StatusInternalServerError)
	}))
	defer api.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	handler := NewDashboardPageHandler(cli.NewClient(api.URL), logger)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeDashboard(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, dashboard.FailureMessage))
	assert.Contains(t, body, `<span id="kpi-trips">-</span>`)
	assert.Equal(t, 0, strings.Count(body, "<tr><td>"))
	assert.Contains(t, logs.String(), "database is locked")
}
