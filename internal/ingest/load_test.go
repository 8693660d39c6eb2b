package ingest

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-dashboard/internal/database"
)

const cleanedCSV = `pickup_datetime,dropoff_datetime,trip_distance,duration_sec,fare_amount,fare_per_km,speed_kmh,payment_type,passenger_count,pickup_zone,dropoff_zone,suspicious
2024-01-01 08:00:00,2024-01-01 08:10:00,2,600,10,3.1,19.3,1,2.0,132,236,false
2024-01-01 09:00:00,2024-01-01 09:20:00,NaN,1200,,,,,,161,,True
2024-01-01 10:00:00,,1.5,oops,7,,,2,1,,,
`

type recordingInserter struct {
	batches [][]database.Trip
	failOn  int
}

func (r *recordingInserter) InsertBatch(_ context.Context, trips []database.Trip) error {
	if r.failOn > 0 && len(r.batches)+1 == r.failOn {
		return errors.New("database is locked")
	}
	r.batches = append(r.batches, append([]database.Trip(nil), trips...))
	return nil
}

func TestLoader_LoadIntoDatabase(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "nyc.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	n, err := NewLoader(db.Trips, discardLogger()).Load(ctx, strings.NewReader(cleanedCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := db.Trips.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	trips, err := db.Trips.List(ctx, database.TripFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, trips, 3)

	assert.Equal(t, "132", *trips[0].PickupZone)
	assert.Equal(t, int64(600), *trips[0].DurationSec)
	assert.Equal(t, 19.3, *trips[0].SpeedKmh)

	assert.Nil(t, trips[1].TripDistance)
	assert.Nil(t, trips[1].FareAmount)
	assert.Nil(t, trips[1].DropoffZone)

	assert.Nil(t, trips[2].DropoffDatetime)
	assert.Nil(t, trips[2].DurationSec)
	assert.Nil(t, trips[2].PickupZone)
}

func TestLoader_ParsesRowValues(t *testing.T) {
	inserter := &recordingInserter{}
	_, err := NewLoader(inserter, discardLogger()).Load(context.Background(), strings.NewReader(cleanedCSV))
	require.NoError(t, err)
	require.Len(t, inserter.batches, 1)

	trips := inserter.batches[0]
	assert.Equal(t, int64(2), *trips[0].PassengerCount)
	assert.Equal(t, "1", *trips[0].PaymentType)
	assert.False(t, trips[0].Suspicious)
	assert.True(t, trips[1].Suspicious)
	assert.Nil(t, trips[1].PassengerCount)
	assert.Nil(t, trips[0].PickupLatitude)
}

func TestLoader_BatchesRows(t *testing.T) {
	inserter := &recordingInserter{}
	n, err := NewLoader(inserter, discardLogger()).WithBatchSize(2).
		Load(context.Background(), strings.NewReader(cleanedCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, inserter.batches, 2)
	assert.Len(t, inserter.batches[0], 2)
	assert.Len(t, inserter.batches[1], 1)
}

func TestLoader_StopsOnInsertError(t *testing.T) {
	inserter := &recordingInserter{failOn: 2}
	n, err := NewLoader(inserter, discardLogger()).WithBatchSize(2).
		Load(context.Background(), strings.NewReader(cleanedCSV))
	assert.ErrorContains(t, err, "failed to insert rows 3-3")
	assert.Equal(t, 2, n)
}

func TestLoader_EmptyInput(t *testing.T) {
	n, err := NewLoader(&recordingInserter{}, discardLogger()).Load(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoader_ReadsCleanerOutput(t *testing.T) {
	input := "pickup_datetime,dropoff_datetime,trip_distance,fare_amount,PULocationID\n" +
		"2024-01-01 08:00:00,2024-01-01 08:10:00,2,10,132\n"

	var cleaned bytes.Buffer
	_, err := NewCleaner(discardLogger()).Clean(strings.NewReader(input), &cleaned)
	require.NoError(t, err)

	inserter := &recordingInserter{}
	n, err := NewLoader(inserter, discardLogger()).Load(context.Background(), &cleaned)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	trip := inserter.batches[0][0]
	assert.Equal(t, "132", *trip.PickupZone)
	assert.Equal(t, int64(600), *trip.DurationSec)
	assert.InDelta(t, 19.31208, *trip.SpeedKmh, 1e-9)
}

func TestParseHelpers(t *testing.T) {
	assert.Nil(t, parseFloat(""))
	assert.Nil(t, parseFloat("NaN"))
	assert.Nil(t, parseFloat("abc"))
	assert.Equal(t, 1.5, *parseFloat("1.5"))

	assert.Equal(t, int64(2), *parseInt("2.0"))
	assert.Nil(t, parseInt("x"))

	assert.Nil(t, parseString(""))
	assert.Nil(t, parseString("NaN"))
	assert.Equal(t, "cash", *parseString("cash"))
}
