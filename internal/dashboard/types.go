package dashboard

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Placeholder is shown for a KPI whose value is missing from the metrics response.
const Placeholder = "-"

// DateRange holds the two optional date inputs read at refresh time.
// Values are passed through to the API without validation.
type DateRange struct {
	Start string
	End   string
}

// Value is an optional JSON scalar as received from the API. The zero value
// represents an absent field.
type Value struct {
	raw json.RawMessage
}

// NewValue wraps a literal JSON fragment. Used mostly by tests and fixtures.
func NewValue(raw string) Value {
	return Value{raw: json.RawMessage(raw)}
}

// UnmarshalJSON keeps the raw fragment; interpretation happens at render time.
func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// MarshalJSON writes the raw fragment back, or null when absent.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNull() {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsNull reports whether the field was absent or explicitly null.
func (v Value) IsNull() bool {
	trimmed := bytes.TrimSpace(v.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Or renders the value for display, falling back to def when it is null.
// Strings are unquoted, numbers are printed in their shortest form.
func (v Value) Or(def string) string {
	if v.IsNull() {
		return def
	}

	trimmed := bytes.TrimSpace(v.raw)
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case 't', 'f':
		return string(trimmed)
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	default:
		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
			return formatNumber(f)
		}
	}
	return string(trimmed)
}

// formatNumber prints f the way a browser prints a number: positional below
// 1e21 and down to 1e-6, exponent form with an unpadded exponent outside that.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String renders the value with an empty-string default.
func (v Value) String() string {
	return v.Or("")
}

// SummaryMetrics is the response of the metrics summary endpoint.
type SummaryMetrics struct {
	Trips        Value `json:"trips"`
	AvgSpeedKmh  Value `json:"avg_speed_kmh"`
	AvgFarePerKm Value `json:"avg_fare_per_km"`
	TotalFare    Value `json:"total_fare"`
}

// TripRecord is one row of the trips listing endpoint.
type TripRecord struct {
	PickupDatetime  Value `json:"pickup_datetime"`
	DropoffDatetime Value `json:"dropoff_datetime"`
	PickupZone      Value `json:"pickup_zone"`
	DropoffZone     Value `json:"dropoff_zone"`
	TripDistance    Value `json:"trip_distance"`
	DurationSec     Value `json:"duration_sec"`
	FareAmount      Value `json:"fare_amount"`
	TipAmount       Value `json:"tip_amount"`
	SpeedKmh        Value `json:"speed_kmh"`
}
