package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"trip-dashboard/internal/analytics"
)

const (
	kmPerMile = 1.60934

	// MaxSpeedKmh is the fastest plausible taxi speed; faster trips are excluded
	MaxSpeedKmh = 200.0

	// SuspiciousThreshold is the robust z-score above which a kept trip is
	// marked suspicious. Taxi speeds are heavy tailed so it is stricter
	// than the API default.
	SuspiciousThreshold = 5.0

	maxFarePerKm = 50.0
)

// Exclusion reasons recorded in the cleaning log
const (
	ReasonBadTime         = "bad_time"
	ReasonSpeedImpossible = "speed_impossible"
	ReasonNegativeValues  = "neg_values"
)

// CleanColumns is the header of a cleaned trips file, in order
var CleanColumns = []string{
	"pickup_datetime", "dropoff_datetime",
	"pickup_longitude", "pickup_latitude",
	"dropoff_longitude", "dropoff_latitude",
	"trip_distance", "duration_sec",
	"fare_amount", "tip_amount",
	"fare_per_km", "speed_kmh",
	"payment_type", "passenger_count",
	"pickup_zone", "dropoff_zone", "suspicious",
}

// zoneColumns maps raw location id columns onto their cleaned names
var zoneColumns = map[string]string{
	"PULocationID": "pickup_zone",
	"DOLocationID": "dropoff_zone",
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006 15:04:05",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04",
}

// ExclusionCount is the number of raw rows dropped for one reason
type ExclusionCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// CleaningLog summarises a cleaning run
type CleaningLog struct {
	RowsTotal  int              `json:"rows_total"`
	RowsClean  int              `json:"rows_clean"`
	Suspicious int              `json:"suspicious"`
	Excluded   []ExclusionCount `json:"excluded"`
}

// WriteJSON writes the log as indented JSON
func (l *CleaningLog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// Cleaner turns a raw taxi trips CSV into the cleaned CSV the loader reads
type Cleaner struct {
	// Threshold for marking speed anomalies as suspicious
	Threshold float64
	// EstimateDistance fills missing or non-positive distances from the
	// pickup and dropoff coordinates and blanks implausible derived values
	EstimateDistance bool
	logger           *slog.Logger
}

// NewCleaner creates a cleaner with the default suspicious threshold
func NewCleaner(logger *slog.Logger) *Cleaner {
	return &Cleaner{
		Threshold: SuspiciousThreshold,
		logger:    logger,
	}
}

type cleanRow struct {
	raw          map[string]string
	distance     *float64
	durationSec  *int64
	fareAmount   *float64
	speedKmh     *float64
	farePerKm    *float64
	reason       string
	suspicious   bool
	distanceEdit bool
}

// Clean reads raw trips from r and writes the kept trips to w
func (c *Cleaner) Clean(r io.Reader, w io.Writer) (*CleaningLog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("input has no header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []*cleanRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, c.deriveRow(header, record))
	}

	log := &CleaningLog{RowsTotal: len(rows), Excluded: []ExclusionCount{}}
	counts := map[string]int{}

	var kept []*cleanRow
	var speeds []float64
	var speedRows []*cleanRow
	for _, row := range rows {
		if row.reason != "" {
			counts[row.reason]++
			continue
		}
		kept = append(kept, row)
		if row.speedKmh != nil {
			speeds = append(speeds, *row.speedKmh)
			speedRows = append(speedRows, row)
		}
	}

	for _, idx := range analytics.FlagAnomalies(speeds, c.Threshold) {
		speedRows[idx].suspicious = true
		log.Suspicious++
	}

	if c.EstimateDistance {
		for _, row := range kept {
			c.enrich(row)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(CleanColumns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range kept {
		if err := writer.Write(row.record()); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush output: %w", err)
	}

	log.RowsClean = len(kept)
	for reason, count := range counts {
		log.Excluded = append(log.Excluded, ExclusionCount{Reason: reason, Count: count})
	}
	sort.Slice(log.Excluded, func(i, j int) bool {
		if log.Excluded[i].Count != log.Excluded[j].Count {
			return log.Excluded[i].Count > log.Excluded[j].Count
		}
		return log.Excluded[i].Reason < log.Excluded[j].Reason
	})

	c.logger.Info("Cleaned trips",
		"rows_total", log.RowsTotal,
		"rows_clean", log.RowsClean,
		"suspicious", log.Suspicious)

	return log, nil
}

func (c *Cleaner) deriveRow(header, record []string) *cleanRow {
	row := &cleanRow{raw: make(map[string]string, len(header))}
	for i, name := range header {
		if i >= len(record) {
			break
		}
		if cleaned, ok := zoneColumns[name]; ok {
			name = cleaned
		}
		row.raw[name] = strings.TrimSpace(record[i])
	}

	row.distance = parseFloat(row.raw["trip_distance"])
	row.fareAmount = parseFloat(row.raw["fare_amount"])

	pickup, pickupOK := parseTime(row.raw["pickup_datetime"])
	dropoff, dropoffOK := parseTime(row.raw["dropoff_datetime"])
	if pickupOK && dropoffOK {
		seconds := int64(dropoff.Sub(pickup).Seconds())
		row.durationSec = &seconds
	}

	row.speedKmh = speedKmh(row.distance, row.durationSec)
	row.farePerKm = farePerKm(row.fareAmount, row.distance)

	// Later rules win when a row matches more than one
	if row.durationSec == nil || *row.durationSec <= 0 {
		row.reason = ReasonBadTime
	}
	if row.speedKmh != nil && *row.speedKmh > MaxSpeedKmh {
		row.reason = ReasonSpeedImpossible
	}
	if (row.fareAmount != nil && *row.fareAmount < 0) || (row.distance != nil && *row.distance < 0) {
		row.reason = ReasonNegativeValues
	}

	return row
}

func (c *Cleaner) enrich(row *cleanRow) {
	if row.distance == nil || *row.distance <= 0 {
		lat1 := parseFloat(row.raw["pickup_latitude"])
		lon1 := parseFloat(row.raw["pickup_longitude"])
		lat2 := parseFloat(row.raw["dropoff_latitude"])
		lon2 := parseFloat(row.raw["dropoff_longitude"])
		if lat1 != nil && lon1 != nil && lat2 != nil && lon2 != nil {
			miles := HaversineKm(*lat1, *lon1, *lat2, *lon2) / kmPerMile
			row.distance = &miles
			row.distanceEdit = true
			row.speedKmh = speedKmh(row.distance, row.durationSec)
			row.farePerKm = farePerKm(row.fareAmount, row.distance)
		}
	}

	if row.speedKmh != nil && (*row.speedKmh <= 0 || *row.speedKmh > MaxSpeedKmh) {
		row.speedKmh = nil
	}
	if row.farePerKm != nil && (*row.farePerKm <= 0 || *row.farePerKm > maxFarePerKm) {
		row.farePerKm = nil
	}
}

func (r *cleanRow) record() []string {
	distance := r.raw["trip_distance"]
	if r.distanceEdit {
		distance = formatFloat(r.distance)
	}

	var duration string
	if r.durationSec != nil {
		duration = strconv.FormatInt(*r.durationSec, 10)
	}

	return []string{
		r.raw["pickup_datetime"], r.raw["dropoff_datetime"],
		r.raw["pickup_longitude"], r.raw["pickup_latitude"],
		r.raw["dropoff_longitude"], r.raw["dropoff_latitude"],
		distance, duration,
		r.raw["fare_amount"], r.raw["tip_amount"],
		formatFloat(r.farePerKm), formatFloat(r.speedKmh),
		r.raw["payment_type"], r.raw["passenger_count"],
		r.raw["pickup_zone"], r.raw["dropoff_zone"],
		strconv.FormatBool(r.suspicious),
	}
}

func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func speedKmh(distanceMiles *float64, seconds *int64) *float64 {
	if distanceMiles == nil || seconds == nil || *seconds <= 0 {
		return nil
	}
	hours := float64(*seconds) / 3600.0
	speed := *distanceMiles * kmPerMile / hours
	return &speed
}

func farePerKm(fare, distanceMiles *float64) *float64 {
	if fare == nil || distanceMiles == nil || *distanceMiles <= 0 {
		return nil
	}
	v := *fare / (*distanceMiles * kmPerMile)
	return &v
}

// HaversineKm is the great-circle distance in kilometres between two points
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
