package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Fetcher issues the three API requests of a refresh cycle. Each method
// receives the prebuilt date-range query and appends its own fixed parameters.
// Implementations return *FetchError on failure.
type Fetcher interface {
	GetMetrics(ctx context.Context, dateQuery string) (*SummaryMetrics, error)
	GetTopPickups(ctx context.Context, k int, dateQuery string) (json.RawMessage, error)
	GetTrips(ctx context.Context, limit int, dateQuery string) ([]TripRecord, error)
}

// View receives the outcome of a refresh cycle. Commit is called once with
// the fully staged view model on success; Notify is called once on failure.
type View interface {
	Commit(vm *ViewModel)
	Notify(message string)
}

// Controller runs refresh cycles against a Fetcher and applies them to a View.
type Controller struct {
	fetcher Fetcher
	view    View
	logger  *slog.Logger
}

// NewController creates a controller. A nil logger discards diagnostics.
func NewController(fetcher Fetcher, view View, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		fetcher: fetcher,
		view:    view,
		logger:  logger,
	}
}

// Load fetches metrics, top pickups and trips, in that order, and stages
// them into a fresh view model. The first failure aborts the cycle.
func (c *Controller) Load(ctx context.Context, r DateRange) (*ViewModel, error) {
	q := BuildQuery(r)

	metrics, err := c.fetcher.GetMetrics(ctx, q)
	if err != nil {
		return nil, err
	}

	// Requested but not rendered.
	if _, err := c.fetcher.GetTopPickups(ctx, TopPickupsK, q); err != nil {
		return nil, err
	}

	trips, err := c.fetcher.GetTrips(ctx, TripsLimit, q)
	if err != nil {
		return nil, err
	}

	vm := NewViewModel()
	vm.SetKPIs(*metrics)
	vm.RenderTrips(trips)
	return vm, nil
}

// Refresh runs one cycle. On success the staged view model is committed in
// a single call. On failure nothing is committed, the error is logged and
// the view is notified exactly once.
func (c *Controller) Refresh(ctx context.Context, r DateRange) error {
	vm, err := c.Load(ctx, r)
	if err != nil {
		attrs := []any{"error", err, "start", r.Start, "end", r.End}
		var fe *FetchError
		if errors.As(err, &fe) {
			attrs = append(attrs, "endpoint", fe.Endpoint, "status", fe.Status)
		}
		c.logger.Error("Dashboard refresh failed", attrs...)
		c.view.Notify(FailureMessage)
		return err
	}

	c.logger.Debug("Dashboard refreshed",
		"start", r.Start,
		"end", r.End,
		"trips", len(vm.Trips))
	c.view.Commit(vm)
	return nil
}
