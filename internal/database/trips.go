package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
)

// Trip is a full row of the trips table. Nil pointers are stored as NULL.
type Trip struct {
	PickupDatetime   *string  `json:"pickup_datetime"`
	DropoffDatetime  *string  `json:"dropoff_datetime"`
	PickupLongitude  *float64 `json:"pickup_longitude"`
	PickupLatitude   *float64 `json:"pickup_latitude"`
	DropoffLongitude *float64 `json:"dropoff_longitude"`
	DropoffLatitude  *float64 `json:"dropoff_latitude"`
	TripDistance     *float64 `json:"trip_distance"`
	DurationSec      *int64   `json:"duration_sec"`
	FareAmount       *float64 `json:"fare_amount"`
	TipAmount        *float64 `json:"tip_amount"`
	FarePerKm        *float64 `json:"fare_per_km"`
	SpeedKmh         *float64 `json:"speed_kmh"`
	PaymentType      *string  `json:"payment_type"`
	PassengerCount   *int64   `json:"passenger_count"`
	PickupZone       *string  `json:"pickup_zone"`
	DropoffZone      *string  `json:"dropoff_zone"`
	Suspicious       bool     `json:"suspicious"`
}

// TripSummary is the projection served by the trips listing
type TripSummary struct {
	PickupDatetime  *string  `json:"pickup_datetime"`
	DropoffDatetime *string  `json:"dropoff_datetime"`
	PickupZone      *string  `json:"pickup_zone"`
	DropoffZone     *string  `json:"dropoff_zone"`
	TripDistance    *float64 `json:"trip_distance"`
	DurationSec     *int64   `json:"duration_sec"`
	FareAmount      *float64 `json:"fare_amount"`
	TipAmount       *float64 `json:"tip_amount"`
	FarePerKm       *float64 `json:"fare_per_km"`
	SpeedKmh        *float64 `json:"speed_kmh"`
}

// Metrics aggregates the trips matching a filter. Averages and the fare
// total are rounded to two decimals and nil when no trip contributes.
type Metrics struct {
	Trips        int64    `json:"trips"`
	AvgSpeedKmh  *float64 `json:"avg_speed_kmh"`
	AvgFarePerKm *float64 `json:"avg_fare_per_km"`
	TotalFare    *float64 `json:"total_fare"`
}

// SpeedSample pairs a trip's rowid with its speed
type SpeedSample struct {
	RowID    int64
	SpeedKmh float64
}

// TripFilter restricts queries to an inclusive pickup_datetime range.
// Empty bounds are ignored.
type TripFilter struct {
	Start string
	End   string
}

func (f TripFilter) where() (string, []any) {
	var clauses []string
	var args []any
	if f.Start != "" {
		clauses = append(clauses, "pickup_datetime >= ?")
		args = append(args, f.Start)
	}
	if f.End != "" {
		clauses = append(clauses, "pickup_datetime <= ?")
		args = append(args, f.End)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// TripStore handles database operations for trips
type TripStore struct {
	db *sql.DB
}

func NewTripStore(db *sql.DB) *TripStore {
	return &TripStore{db: db}
}

// List returns trips ordered by pickup time
func (s *TripStore) List(ctx context.Context, filter TripFilter, limit, offset int) ([]TripSummary, error) {
	clause, args := filter.where()
	query := `SELECT pickup_datetime, dropoff_datetime, pickup_zone, dropoff_zone,
			  trip_distance, duration_sec, fare_amount, tip_amount, fare_per_km, speed_kmh
			  FROM trips` + clause + ` ORDER BY pickup_datetime LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips := []TripSummary{}
	for rows.Next() {
		var trip TripSummary
		err := rows.Scan(&trip.PickupDatetime, &trip.DropoffDatetime,
			&trip.PickupZone, &trip.DropoffZone, &trip.TripDistance,
			&trip.DurationSec, &trip.FareAmount, &trip.TipAmount,
			&trip.FarePerKm, &trip.SpeedKmh)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Metrics returns the count, average speed, average fare per km and fare total
func (s *TripStore) Metrics(ctx context.Context, filter TripFilter) (*Metrics, error) {
	clause, args := filter.where()
	query := `SELECT COUNT(*), AVG(speed_kmh), AVG(fare_per_km), SUM(fare_amount)
			  FROM trips` + clause

	var count sql.NullInt64
	var avgSpeed, avgFare, totalFare sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count, &avgSpeed, &avgFare, &totalFare)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}

	return &Metrics{
		Trips:        count.Int64,
		AvgSpeedKmh:  round2(avgSpeed),
		AvgFarePerKm: round2(avgFare),
		TotalFare:    round2(totalFare),
	}, nil
}

// PickupZones returns the non-null pickup zone of every matching trip
func (s *TripStore) PickupZones(ctx context.Context, filter TripFilter) ([]string, error) {
	clause, args := filter.where()
	query := "SELECT pickup_zone FROM trips" + clause

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pickup zones: %w", err)
	}
	defer rows.Close()

	zones := []string{}
	for rows.Next() {
		var zone sql.NullString
		if err := rows.Scan(&zone); err != nil {
			return nil, fmt.Errorf("failed to scan pickup zone: %w", err)
		}
		if zone.Valid {
			zones = append(zones, zone.String)
		}
	}

	return zones, rows.Err()
}

// Speeds returns the rowid and speed of every matching trip with a known speed
func (s *TripStore) Speeds(ctx context.Context, filter TripFilter) ([]SpeedSample, error) {
	clause, args := filter.where()
	query := "SELECT rowid, speed_kmh FROM trips" + clause

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query speeds: %w", err)
	}
	defer rows.Close()

	samples := []SpeedSample{}
	for rows.Next() {
		var rowID int64
		var speed sql.NullFloat64
		if err := rows.Scan(&rowID, &speed); err != nil {
			return nil, fmt.Errorf("failed to scan speed: %w", err)
		}
		if speed.Valid {
			samples = append(samples, SpeedSample{RowID: rowID, SpeedKmh: speed.Float64})
		}
	}

	return samples, rows.Err()
}

// InsertBatch inserts trips in a single transaction
func (s *TripStore) InsertBatch(ctx context.Context, trips []Trip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trips (
		pickup_datetime, dropoff_datetime,
		pickup_longitude, pickup_latitude,
		dropoff_longitude, dropoff_latitude,
		trip_distance, duration_sec,
		fare_amount, tip_amount,
		fare_per_km, speed_kmh,
		payment_type, passenger_count,
		pickup_zone, dropoff_zone, suspicious
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range trips {
		_, err := stmt.ExecContext(ctx,
			t.PickupDatetime, t.DropoffDatetime,
			t.PickupLongitude, t.PickupLatitude,
			t.DropoffLongitude, t.DropoffLatitude,
			t.TripDistance, t.DurationSec,
			t.FareAmount, t.TipAmount,
			t.FarePerKm, t.SpeedKmh,
			t.PaymentType, t.PassengerCount,
			t.PickupZone, t.DropoffZone, t.Suspicious)
		if err != nil {
			return fmt.Errorf("failed to insert trip %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trips: %w", err)
	}
	return nil
}

// Count returns the number of stored trips
func (s *TripStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}

func round2(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	r := math.Round(v.Float64*100) / 100
	return &r
}
