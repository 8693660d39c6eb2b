package cmd

import (
	"os"

	"github.com/spf13/cobra"

	cliapi "trip-dashboard/internal/cli"
	"trip-dashboard/internal/dashboard"
)

var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"refresh"},
	Short:   "Refresh the dashboard once and print it",
	Long: `Fetch the summary metrics and the first trips for the selected date
range and print the KPIs followed by the trips table.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// spinnerView stops the spinner before the wrapped view prints anything
type spinnerView struct {
	dashboard.View
	spinner *cliapi.ProgressSpinner
}

func (v spinnerView) Commit(vm *dashboard.ViewModel) {
	v.spinner.Stop()
	v.View.Commit(vm)
}

func (v spinnerView) Notify(message string) {
	v.spinner.Stop()
	v.View.Notify(message)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	var view dashboard.View = s.formatter
	if s.cfg.Format == "table" && !s.cfg.Quiet {
		spinner := cliapi.NewProgressSpinner("Loading dashboard...", s.cfg.NoColor)
		spinner.Start()
		defer spinner.Stop()
		view = spinnerView{View: s.formatter, spinner: spinner}
	}

	controller := dashboard.NewController(s.client, view, s.logger)
	if err := controller.Refresh(cmd.Context(), dateRange()); err != nil {
		return alreadyReported(err)
	}
	if err := s.formatter.Err(); err != nil {
		s.formatter.PrintError(err)
		return alreadyReported(err)
	}
	return nil
}
