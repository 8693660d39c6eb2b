package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"trip-dashboard/internal/dashboard"
	"trip-dashboard/internal/database"
	"trip-dashboard/internal/handlers"
)

// Handlers groups the HTTP handlers served by the trips API
type Handlers struct {
	health    *handlers.HealthHandler
	trips     *handlers.TripHandler
	summary   *handlers.SummaryHandler
	insights  *handlers.InsightsHandler
	dashboard *handlers.DashboardPageHandler
}

// NewHandlers wires the API handlers to db. The dashboard page loads its
// data through fetcher, normally a client pointed back at this server.
func NewHandlers(db *database.DB, fetcher dashboard.Fetcher, anomalyLimit int, logger *slog.Logger) *Handlers {
	return &Handlers{
		health:    handlers.NewHealthHandler(db),
		trips:     handlers.NewTripHandler(db),
		summary:   handlers.NewSummaryHandler(db),
		insights:  handlers.NewInsightsHandler(db, anomalyLimit),
		dashboard: handlers.NewDashboardPageHandler(fetcher, logger),
	}
}

// RegisterRoutes registers all routes with a chi router
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health.HealthCheck)
		r.Get("/trips", h.trips.GetTrips)
		r.Get("/summary/metrics", h.summary.GetMetrics)
		r.Get("/summary/top-pickups", h.summary.GetTopPickups)
		r.Get("/insights/anomalies", h.insights.GetAnomalies)
	})

	r.Get("/", h.dashboard.ServeDashboard)
}

// NewRouter builds the chi router with the full middleware chain
func NewRouter(h *Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Use(CORSMiddleware)
	r.Use(ContentTypeMiddleware)
	r.Use(SecurityMiddleware)

	h.RegisterRoutes(r)
	return r
}
