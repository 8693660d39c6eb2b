// Copyright 2024 Trip Dashboard
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sql.DB connection and provides access to stores
type DB struct {
	*sql.DB
	Trips *TripStore
}

// Open opens a database connection and initializes stores
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &DB{
		DB:    db,
		Trips: NewTripStore(db),
	}

	if err := database.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

// migrate creates the database schema
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trips (
		pickup_datetime TEXT,
		dropoff_datetime TEXT,
		pickup_longitude REAL,
		pickup_latitude REAL,
		dropoff_longitude REAL,
		dropoff_latitude REAL,
		trip_distance REAL,
		duration_sec INTEGER,
		fare_amount REAL,
		tip_amount REAL,
		fare_per_km REAL,
		speed_kmh REAL,
		payment_type TEXT,
		passenger_count INTEGER,
		pickup_zone TEXT,
		dropoff_zone TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_trips_pickup_datetime ON trips(pickup_datetime);
	CREATE INDEX IF NOT EXISTS idx_trips_pickup_zone ON trips(pickup_zone);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return db.migrateSuspiciousField()
}

// migrateSuspiciousField adds the cleaning flag to databases created before it existed
func (db *DB) migrateSuspiciousField() error {
	var columnExists int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('trips')
		WHERE name = 'suspicious'
	`).Scan(&columnExists)
	if err != nil {
		return fmt.Errorf("failed to check column existence: %w", err)
	}

	if columnExists == 0 {
		query := "ALTER TABLE trips ADD COLUMN suspicious BOOLEAN DEFAULT FALSE"
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration query '%s': %w", query, err)
		}
	}

	return nil
}

// IsHealthy checks if the database connection is healthy
func (db *DB) IsHealthy() error {
	return db.Ping()
}
