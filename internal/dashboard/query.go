package dashboard

import (
	"net/url"
	"strconv"
	"strings"
)

// Fixed parameters appended by the refresh cycle.
const (
	TopPickupsK = 10
	TripsLimit  = 50
)

// BuildQuery encodes the date range as a query string. Empty fields are
// omitted and start always precedes end.
func BuildQuery(r DateRange) string {
	var parts []string
	if r.Start != "" {
		parts = append(parts, "start="+url.QueryEscape(r.Start))
	}
	if r.End != "" {
		parts = append(parts, "end="+url.QueryEscape(r.End))
	}
	return strings.Join(parts, "&")
}

// JoinQuery joins non-empty query fragments with '&'.
func JoinQuery(fragments ...string) string {
	var parts []string
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "&")
}

// MetricsPath returns the metrics summary request path for a prebuilt date query.
func MetricsPath(dateQuery string) string {
	return withQuery("/api/summary/metrics", dateQuery)
}

// TopPickupsPath returns the top-pickups request path with k prepended.
func TopPickupsPath(k int, dateQuery string) string {
	return withQuery("/api/summary/top-pickups", JoinQuery("k="+strconv.Itoa(k), dateQuery))
}

// TripsPath returns the trips listing request path with limit prepended.
func TripsPath(limit int, dateQuery string) string {
	return withQuery("/api/trips", JoinQuery("limit="+strconv.Itoa(limit), dateQuery))
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
