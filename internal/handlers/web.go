package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"log/slog"
	"net/http"

	"trip-dashboard/internal/dashboard"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DashboardPageHandler renders the HTML dashboard. Each request runs one
// refresh cycle against the trips API and renders its outcome.
type DashboardPageHandler struct {
	fetcher dashboard.Fetcher
	logger  *slog.Logger
}

// NewDashboardPageHandler creates a new dashboard page handler
func NewDashboardPageHandler(fetcher dashboard.Fetcher, logger *slog.Logger) *DashboardPageHandler {
	return &DashboardPageHandler{fetcher: fetcher, logger: logger}
}

type dashboardPage struct {
	Range   dashboard.DateRange
	Notice  string
	Columns [9]string
	KPIs    dashboard.KPIs
	Trips   []dashboard.TripRow
}

// pageView collects the outcome of a single refresh for rendering
type pageView struct {
	vm     *dashboard.ViewModel
	notice string
}

func (v *pageView) Commit(vm *dashboard.ViewModel) { v.vm = vm }
func (v *pageView) Notify(message string)          { v.notice = message }

// ServeDashboard handles GET /
func (h *DashboardPageHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := dashboard.DateRange{Start: q.Get("start"), End: q.Get("end")}

	view := &pageView{vm: dashboard.NewViewModel()}
	// Failures are logged by the controller and surface as the page notice.
	_ = dashboard.NewController(h.fetcher, view, h.logger).Refresh(r.Context(), rng)

	page := dashboardPage{
		Range:   rng,
		Notice:  view.notice,
		Columns: dashboard.TripColumns,
		KPIs:    view.vm.KPIs,
		Trips:   view.vm.Trips,
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		log.Printf("ERROR: Failed to render dashboard: %v", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
