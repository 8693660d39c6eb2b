package dashboard

// TripColumns is the fixed column order of the trips table.
var TripColumns = [9]string{
	"Pickup",
	"Dropoff",
	"Pickup Zone",
	"Dropoff Zone",
	"Distance",
	"Duration (s)",
	"Fare",
	"Tip",
	"Speed (km/h)",
}

// KPIs are the four summary display values.
type KPIs struct {
	Trips        string `json:"trips"`
	AvgSpeedKmh  string `json:"avg_speed_kmh"`
	AvgFarePerKm string `json:"avg_fare_per_km"`
	TotalFare    string `json:"total_fare"`
}

// EmptyKPIs is what a view shows before its first successful refresh.
func EmptyKPIs() KPIs {
	return KPIs{
		Trips:        Placeholder,
		AvgSpeedKmh:  Placeholder,
		AvgFarePerKm: Placeholder,
		TotalFare:    Placeholder,
	}
}

// TripRow is one rendered table row in TripColumns order.
type TripRow [9]string

// NewTripRow renders a record; missing fields become empty strings.
func NewTripRow(r TripRecord) TripRow {
	return TripRow{
		r.PickupDatetime.String(),
		r.DropoffDatetime.String(),
		r.PickupZone.String(),
		r.DropoffZone.String(),
		r.TripDistance.String(),
		r.DurationSec.String(),
		r.FareAmount.String(),
		r.TipAmount.String(),
		r.SpeedKmh.String(),
	}
}

// ViewModel is everything a view displays for one refresh cycle.
type ViewModel struct {
	KPIs  KPIs      `json:"kpis"`
	Trips []TripRow `json:"trips"`
}

// NewViewModel returns a view model in its pre-refresh state.
func NewViewModel() *ViewModel {
	return &ViewModel{KPIs: EmptyKPIs(), Trips: []TripRow{}}
}

// SetKPIs copies the metrics into the KPI fields, using Placeholder for
// anything missing.
func (vm *ViewModel) SetKPIs(m SummaryMetrics) {
	vm.KPIs = KPIs{
		Trips:        m.Trips.Or(Placeholder),
		AvgSpeedKmh:  m.AvgSpeedKmh.Or(Placeholder),
		AvgFarePerKm: m.AvgFarePerKm.Or(Placeholder),
		TotalFare:    m.TotalFare.Or(Placeholder),
	}
}

// RenderTrips clears the table and appends one row per record in order.
func (vm *ViewModel) RenderTrips(records []TripRecord) {
	vm.Trips = vm.Trips[:0]
	for _, r := range records {
		vm.Trips = append(vm.Trips, NewTripRow(r))
	}
}
