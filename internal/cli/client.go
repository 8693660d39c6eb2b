package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-dashboard/internal/dashboard"
)

// Client is an HTTP client for the trips API. It implements dashboard.Fetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, 30*time.Second)
}

// NewClientWithTimeout creates a new API client with a custom request timeout
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON performs a GET and decodes the body into out. Every failure is
// reported as a *dashboard.FetchError.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &dashboard.FetchError{Endpoint: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &dashboard.FetchError{Endpoint: path, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = resp.Status
		}
		return &dashboard.FetchError{Endpoint: path, Status: resp.StatusCode, Body: message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &dashboard.FetchError{Endpoint: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// HealthCheck checks if the API server is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	var body map[string]interface{}
	return c.getJSON(ctx, "/api/health", &body)
}

// GetMetrics returns the trip summary metrics for the date range
func (c *Client) GetMetrics(ctx context.Context, dateQuery string) (*dashboard.SummaryMetrics, error) {
	var metrics *dashboard.SummaryMetrics
	path := dashboard.MetricsPath(dateQuery)
	if err := c.getJSON(ctx, path, &metrics); err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, &dashboard.FetchError{Endpoint: path, Err: fmt.Errorf("unexpected null metrics")}
	}
	return metrics, nil
}

// GetTopPickups returns the raw top-K pickup zones payload
func (c *Client) GetTopPickups(ctx context.Context, k int, dateQuery string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, dashboard.TopPickupsPath(k, dateQuery), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetTrips returns up to limit trip records for the date range
func (c *Client) GetTrips(ctx context.Context, limit int, dateQuery string) ([]dashboard.TripRecord, error) {
	var trips []dashboard.TripRecord
	path := dashboard.TripsPath(limit, dateQuery)
	if err := c.getJSON(ctx, path, &trips); err != nil {
		return nil, err
	}
	if trips == nil {
		return nil, &dashboard.FetchError{Endpoint: path, Err: fmt.Errorf("expected a JSON array of trips, got null")}
	}
	return trips, nil
}
