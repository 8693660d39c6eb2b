package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-dashboard/internal/dashboard"
)

func committedReport(t *testing.T, trips int) *PDF {
	t.Helper()

	vm := dashboard.NewViewModel()
	vm.SetKPIs(dashboard.SummaryMetrics{
		Trips:        dashboard.NewValue("2"),
		AvgSpeedKmh:  dashboard.NewValue("18.5"),
		AvgFarePerKm: dashboard.NewValue("null"),
		TotalFare:    dashboard.NewValue("24.75"),
	})

	var records []dashboard.TripRecord
	for i := 0; i < trips; i++ {
		records = append(records, dashboard.TripRecord{
			PickupDatetime: dashboard.NewValue(`"2024-01-01 08:00:00"`),
			PickupZone:     dashboard.NewValue(`"Upper East Side South, Manhattan, New York"`),
			FareAmount:     dashboard.NewValue("12.5"),
		})
	}
	vm.RenderTrips(records)

	p := NewPDF("NYC Taxi Trips", dashboard.DateRange{Start: "2024-01-01"})
	p.now = func() time.Time { return time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC) }
	p.Commit(vm)
	return p
}

func TestPDF_WriteBeforeCommit(t *testing.T) {
	p := NewPDF("NYC Taxi Trips", dashboard.DateRange{})
	p.Notify(dashboard.FailureMessage)

	var buf bytes.Buffer
	err := p.Write(&buf)
	assert.ErrorIs(t, err, ErrNothingCommitted)
	assert.Zero(t, buf.Len())
	assert.Equal(t, dashboard.FailureMessage, p.Notice())
}

func TestPDF_Write(t *testing.T) {
	data, err := committedReport(t, 3).Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "%%EOF")
}

func TestPDF_ManyRowsSpanPages(t *testing.T) {
	short, err := committedReport(t, 1).Bytes()
	require.NoError(t, err)

	long, err := committedReport(t, 100).Bytes()
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(short), "/Type /Page\n"))
	assert.Greater(t, strings.Count(string(long), "/Type /Page\n"), 1)
}

func TestPDF_EmptyTable(t *testing.T) {
	data, err := committedReport(t, 0).Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDF_CommitClearsNotice(t *testing.T) {
	p := committedReport(t, 1)
	p.Notify("boom")
	assert.Equal(t, "boom", p.Notice())

	p.Commit(dashboard.NewViewModel())
	assert.Empty(t, p.Notice())
}

func TestRangeLabel(t *testing.T) {
	assert.Equal(t, "beginning to latest", rangeLabel(dashboard.DateRange{}))
	assert.Equal(t, "2024-01-01 to 2024-01-31", rangeLabel(dashboard.DateRange{Start: "2024-01-01", End: "2024-01-31"}))
}

func TestFit(t *testing.T) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 8)

	assert.Equal(t, "132", fit(pdf, "132", 20))

	long := strings.Repeat("Manhattan ", 10)
	trimmed := fit(pdf, long, 20)
	assert.True(t, strings.HasSuffix(trimmed, "..."))
	assert.LessOrEqual(t, pdf.GetStringWidth(trimmed), 20.0)
}
