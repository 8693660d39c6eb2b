package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"trip-dashboard/internal/dashboard"
)

// OutputFormatter renders dashboard view models to a terminal. It
// implements dashboard.View.
type OutputFormatter struct {
	format   string
	quiet    bool
	useColor bool
	out      io.Writer
	errOut   io.Writer
	err      error
}

// NewOutputFormatter creates a formatter writing to stdout and stderr
func NewOutputFormatter(format string, quiet, noColor bool) *OutputFormatter {
	useColor := !noColor && !termenv.EnvNoColor() && isatty.IsTerminal(os.Stdout.Fd())
	return &OutputFormatter{
		format:   format,
		quiet:    quiet,
		useColor: useColor,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// NewOutputFormatterWithWriters creates a colorless formatter on the given writers
func NewOutputFormatterWithWriters(format string, quiet bool, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		format: format,
		quiet:  quiet,
		out:    out,
		errOut: errOut,
	}
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	kpiStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
)

// Commit prints the KPIs followed by the trips table
func (f *OutputFormatter) Commit(vm *dashboard.ViewModel) {
	f.err = f.printViewModel(vm)
}

// Notify prints the failure notification. It is shown in quiet mode too.
func (f *OutputFormatter) Notify(message string) {
	if f.useColor {
		message = errorStyle.Render(message)
	}
	fmt.Fprintf(f.errOut, "✗ %s\n", message)
}

// Err returns the write error of the last Commit, if any
func (f *OutputFormatter) Err() error {
	return f.err
}

// PrintSuccess prints a success message
func (f *OutputFormatter) PrintSuccess(message string) {
	if !f.quiet {
		fmt.Fprintf(f.out, "✓ %s\n", message)
	}
}

// PrintError prints an error message
func (f *OutputFormatter) PrintError(err error) {
	if !f.quiet {
		fmt.Fprintf(f.errOut, "✗ Error: %v\n", err)
	}
}

// PrintInfo prints an informational message
func (f *OutputFormatter) PrintInfo(message string) {
	if !f.quiet {
		fmt.Fprintf(f.out, "ℹ %s\n", message)
	}
}

func (f *OutputFormatter) printViewModel(vm *dashboard.ViewModel) error {
	if f.quiet {
		_, err := fmt.Fprintf(f.out, "%s\t%s\t%s\t%s\n",
			vm.KPIs.Trips, vm.KPIs.AvgSpeedKmh, vm.KPIs.AvgFarePerKm, vm.KPIs.TotalFare)
		return err
	}

	switch f.format {
	case "json":
		return json.NewEncoder(f.out).Encode(vm)
	case "table":
		return f.printTable(vm)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

func (f *OutputFormatter) printTable(vm *dashboard.ViewModel) error {
	kpis := []struct{ label, value string }{
		{"Trips", vm.KPIs.Trips},
		{"Avg speed (km/h)", vm.KPIs.AvgSpeedKmh},
		{"Avg fare per km", vm.KPIs.AvgFarePerKm},
		{"Total fare", vm.KPIs.TotalFare},
	}
	for _, k := range kpis {
		value := k.value
		if f.useColor {
			value = kpiStyle.Render(value)
		}
		if _, err := fmt.Fprintf(f.out, "%-18s %s\n", k.label+":", value); err != nil {
			return err
		}
	}
	fmt.Fprintln(f.out)

	if len(vm.Trips) == 0 {
		_, err := fmt.Fprintln(f.out, "No trips found.")
		return err
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.ToUpper(strings.Join(dashboard.TripColumns[:], "\t")))

	for _, row := range vm.Trips {
		fmt.Fprintln(w, strings.Join(row[:], "\t"))
	}

	return w.Flush()
}
