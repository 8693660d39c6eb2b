package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"trip-dashboard/internal/dashboard"
)

// ErrNothingCommitted is returned by Write when no refresh succeeded
var ErrNothingCommitted = errors.New("no dashboard data to report")

// column widths in mm for the trips table on landscape A4, in TripColumns order
var columnWidths = [9]float64{40, 40, 28, 28, 24, 26, 22, 20, 29}

// PDF is a dashboard view that renders the committed view model as a
// printable report. It keeps only the latest outcome.
type PDF struct {
	Title     string
	DateRange dashboard.DateRange
	now       func() time.Time

	vm     *dashboard.ViewModel
	notice string
}

// NewPDF creates an empty report for the given date range
func NewPDF(title string, r dashboard.DateRange) *PDF {
	return &PDF{Title: title, DateRange: r, now: time.Now}
}

// Commit records the refreshed view model
func (p *PDF) Commit(vm *dashboard.ViewModel) {
	p.vm = vm
	p.notice = ""
}

// Notify records the failure message. A previous commit is kept.
func (p *PDF) Notify(message string) {
	p.notice = message
}

// Notice returns the last failure message, or "" after a successful commit
func (p *PDF) Notice() string {
	return p.notice
}

// Write renders the report to w
func (p *PDF) Write(w io.Writer) error {
	if p.vm == nil {
		return ErrNothingCommitted
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(p.Title, false)
	pdf.SetCreator("trip-dashboard", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(p.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Range: "+rangeLabel(p.DateRange))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated: "+p.now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	kpis := []struct{ label, value string }{
		{"Trips", p.vm.KPIs.Trips},
		{"Avg speed (km/h)", p.vm.KPIs.AvgSpeedKmh},
		{"Avg fare per km", p.vm.KPIs.AvgFarePerKm},
		{"Total fare", p.vm.KPIs.TotalFare},
	}
	for _, kpi := range kpis {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(45, 7, kpi.label)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 7, tr(kpi.value))
		pdf.Ln(7)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range dashboard.TripColumns {
		pdf.CellFormat(columnWidths[i], 7, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	if len(p.vm.Trips) == 0 {
		pdf.CellFormat(sum(columnWidths[:]), 7, "No trips in range", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, row := range p.vm.Trips {
		for i, cell := range row {
			pdf.CellFormat(columnWidths[i], 6, tr(fit(pdf, cell, columnWidths[i]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return pdf.Output(w)
}

// Bytes renders the report into memory
func (p *PDF) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rangeLabel(r dashboard.DateRange) string {
	start, end := r.Start, r.End
	if start == "" {
		start = "beginning"
	}
	if end == "" {
		end = "latest"
	}
	return start + " to " + end
}

// fit trims text until it is no wider than width
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
