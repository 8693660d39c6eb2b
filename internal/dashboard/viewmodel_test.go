package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Or(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"absent", "", "-"},
		{"null", "null", "-"},
		{"integer", "120", "120"},
		{"decimal", "18.4", "18.4"},
		{"trailing zeros", "18.40", "18.4"},
		{"zero", "0", "0"},
		{"negative zero", "-0", "0"},
		{"exponent input", "1.5E3", "1500"},
		{"large", "1e21", "1e+21"},
		{"below large threshold", "1e20", "100000000000000000000"},
		{"small", "1e-7", "1e-7"},
		{"small with mantissa", "-2.5e-8", "-2.5e-8"},
		{"at small threshold", "0.000001", "0.000001"},
		{"string", `"2024-01-01 08:00:00"`, "2024-01-01 08:00:00"},
		{"empty string", `""`, ""},
		{"boolean", "true", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewValue(tt.raw).Or("-"))
		})
	}
}

func TestSetKPIs_MissingFieldsUsePlaceholder(t *testing.T) {
	var m SummaryMetrics
	require.NoError(t, json.Unmarshal([]byte(`{"trips": 120, "avg_speed_kmh": 18.4}`), &m))

	vm := NewViewModel()
	vm.SetKPIs(m)

	assert.Equal(t, KPIs{
		Trips:        "120",
		AvgSpeedKmh:  "18.4",
		AvgFarePerKm: "-",
		TotalFare:    "-",
	}, vm.KPIs)
}

func TestSetKPIs_NullTotalFare(t *testing.T) {
	var m SummaryMetrics
	require.NoError(t, json.Unmarshal([]byte(`{"trips": 0, "avg_speed_kmh": null, "avg_fare_per_km": null, "total_fare": null}`), &m))

	vm := NewViewModel()
	vm.SetKPIs(m)

	assert.Equal(t, "0", vm.KPIs.Trips)
	assert.Equal(t, "-", vm.KPIs.TotalFare)
	assert.NotContains(t, vm.KPIs.TotalFare, "null")
}

func TestRenderTrips_MissingFieldIsEmptyString(t *testing.T) {
	var records []TripRecord
	require.NoError(t, json.Unmarshal([]byte(`[{
		"pickup_datetime": "2024-01-01 08:00:00",
		"dropoff_datetime": "2024-01-01 08:20:00",
		"pickup_zone": "132",
		"dropoff_zone": 236,
		"duration_sec": 1200,
		"fare_amount": 22.5,
		"tip_amount": null,
		"speed_kmh": 14.2
	}]`), &records))

	vm := NewViewModel()
	vm.RenderTrips(records)

	require.Len(t, vm.Trips, 1)
	assert.Equal(t, TripRow{
		"2024-01-01 08:00:00",
		"2024-01-01 08:20:00",
		"132",
		"236",
		"",
		"1200",
		"22.5",
		"",
		"14.2",
	}, vm.Trips[0])
	assert.NotEqual(t, Placeholder, vm.Trips[0][4])
}

func TestRenderTrips_ClearsPriorRowsAndKeepsOrder(t *testing.T) {
	vm := NewViewModel()
	vm.RenderTrips([]TripRecord{
		{PickupZone: NewValue(`"old-1"`)},
		{PickupZone: NewValue(`"old-2"`)},
		{PickupZone: NewValue(`"old-3"`)},
	})
	require.Len(t, vm.Trips, 3)

	next := []TripRecord{
		{PickupZone: NewValue(`"a"`)},
		{PickupZone: NewValue(`"b"`)},
	}
	vm.RenderTrips(next)

	require.Len(t, vm.Trips, 2)
	assert.Equal(t, "a", vm.Trips[0][2])
	assert.Equal(t, "b", vm.Trips[1][2])

	// Same input renders the same rows.
	first := append([]TripRow(nil), vm.Trips...)
	vm.RenderTrips(next)
	assert.Equal(t, first, vm.Trips)
}

func TestRenderTrips_Empty(t *testing.T) {
	vm := NewViewModel()
	vm.RenderTrips([]TripRecord{{}, {}})
	vm.RenderTrips([]TripRecord{})

	assert.Empty(t, vm.Trips)
}

func TestNewViewModel_Defaults(t *testing.T) {
	vm := NewViewModel()

	assert.Equal(t, EmptyKPIs(), vm.KPIs)
	assert.NotNil(t, vm.Trips)
	assert.Empty(t, vm.Trips)
}
