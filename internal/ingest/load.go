package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"trip-dashboard/internal/database"
)

// DefaultBatchSize is the number of rows committed per transaction
const DefaultBatchSize = 10000

// TripInserter is the storage side of a load
type TripInserter interface {
	InsertBatch(ctx context.Context, trips []database.Trip) error
}

// Loader inserts a cleaned trips CSV into the database
type Loader struct {
	store     TripInserter
	batchSize int
	logger    *slog.Logger
}

// NewLoader creates a loader that commits every DefaultBatchSize rows
func NewLoader(store TripInserter, logger *slog.Logger) *Loader {
	return &Loader{
		store:     store,
		batchSize: DefaultBatchSize,
		logger:    logger,
	}
}

// WithBatchSize overrides the rows committed per transaction
func (l *Loader) WithBatchSize(size int) *Loader {
	if size > 0 {
		l.batchSize = size
	}
	return l
}

// Load reads the cleaned CSV from r and returns the number of rows inserted.
// Rows committed before an error stay in the database.
func (l *Loader) Load(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	inserted := 0
	batch := make([]database.Trip, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.store.InsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d: %w", inserted+1, inserted+len(batch), err)
		}
		inserted += len(batch)
		batch = batch[:0]
		l.logger.Info("Inserted rows", "total", inserted)
		return nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to read row %d: %w", inserted+len(batch)+1, err)
		}

		batch = append(batch, tripFromRecord(index, record))
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return inserted, err
			}
		}
	}

	if err := flush(); err != nil {
		return inserted, err
	}
	return inserted, nil
}

func tripFromRecord(index map[string]int, record []string) database.Trip {
	get := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	suspicious, _ := strconv.ParseBool(get("suspicious"))

	return database.Trip{
		PickupDatetime:   parseString(get("pickup_datetime")),
		DropoffDatetime:  parseString(get("dropoff_datetime")),
		PickupLongitude:  parseFloat(get("pickup_longitude")),
		PickupLatitude:   parseFloat(get("pickup_latitude")),
		DropoffLongitude: parseFloat(get("dropoff_longitude")),
		DropoffLatitude:  parseFloat(get("dropoff_latitude")),
		TripDistance:     parseFloat(get("trip_distance")),
		DurationSec:      parseInt(get("duration_sec")),
		FareAmount:       parseFloat(get("fare_amount")),
		TipAmount:        parseFloat(get("tip_amount")),
		FarePerKm:        parseFloat(get("fare_per_km")),
		SpeedKmh:         parseFloat(get("speed_kmh")),
		PaymentType:      parseString(get("payment_type")),
		PassengerCount:   parseInt(get("passenger_count")),
		PickupZone:       parseString(get("pickup_zone")),
		DropoffZone:      parseString(get("dropoff_zone")),
		Suspicious:       suspicious,
	}
}

// parseFloat returns nil for empty, NaN or malformed values
func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseInt accepts integral floats such as "2.0" and truncates the rest
func parseInt(value string) *int64 {
	f := parseFloat(value)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}

func parseString(value string) *string {
	if value == "" || value == "NaN" {
		return nil
	}
	return &value
}
