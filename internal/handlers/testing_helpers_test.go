package handlers

import (
	"context"
	"os"
	"testing"

	"trip-dashboard/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpfile, err := os.CreateTemp("", "handlers_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpfile.Close()
	t.Cleanup(func() {
		os.Remove(tmpfile.Name())
	})

	db, err := database.Open(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db
}

func teardownTestDB(db *database.DB) {
	db.Close()
}

func str(s string) *string   { return &s }
func num(f float64) *float64 { return &f }
func integer(i int64) *int64 { return &i }

// seedTrips stores six trips; the last one is a speed outlier
func seedTrips(t *testing.T, db *database.DB) {
	trips := []database.Trip{
		{PickupDatetime: str("2024-01-01 08:00:00"), PickupZone: str("132"), DropoffZone: str("236"),
			TripDistance: num(2.5), DurationSec: integer(600), FareAmount: num(12.5), TipAmount: num(2),
			FarePerKm: num(3.1), SpeedKmh: num(20)},
		{PickupDatetime: str("2024-01-01 09:00:00"), PickupZone: str("161"), FareAmount: num(8), FarePerKm: num(2.9), SpeedKmh: num(21)},
		{PickupDatetime: str("2024-01-02 10:00:00"), PickupZone: str("132"), FareAmount: num(9), FarePerKm: num(3), SpeedKmh: num(22)},
		{PickupDatetime: str("2024-01-02 11:00:00"), PickupZone: str("237"), FareAmount: num(7), FarePerKm: num(3), SpeedKmh: num(23)},
		{PickupDatetime: str("2024-01-03 12:00:00"), PickupZone: str("132"), FareAmount: num(10), FarePerKm: num(3), SpeedKmh: num(21)},
		{PickupDatetime: str("2024-01-03 13:00:00"), FareAmount: num(50), SpeedKmh: num(180)},
	}
	if err := db.Trips.InsertBatch(context.Background(), trips); err != nil {
		t.Fatalf("Failed to seed trips: %v", err)
	}
}
