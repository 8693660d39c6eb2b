package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trip-dashboard/internal/dashboard"
	"trip-dashboard/internal/report"
)

var (
	reportOut   string
	reportTitle string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the dashboard as a PDF",
	Long: `Run one refresh and write the KPIs and trips table to a PDF file.
No file is written when the refresh fails.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "dashboard.pdf", "PDF file to write")
	reportCmd.Flags().StringVar(&reportTitle, "title", "NYC Taxi Trips Dashboard", "Report title")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := newSession(os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	r := dateRange()
	pdf := report.NewPDF(reportTitle, r)
	controller := dashboard.NewController(s.client, pdf, s.logger)
	if err := controller.Refresh(cmd.Context(), r); err != nil {
		s.formatter.Notify(pdf.Notice())
		return alreadyReported(err)
	}

	data, err := pdf.Bytes()
	if err != nil {
		s.formatter.PrintError(err)
		return alreadyReported(err)
	}

	if err := os.WriteFile(reportOut, data, 0644); err != nil {
		err = fmt.Errorf("failed to write report: %w", err)
		s.formatter.PrintError(err)
		return alreadyReported(err)
	}

	s.logger.Info("Report written", "path", reportOut, "bytes", len(data))
	s.formatter.PrintSuccess(fmt.Sprintf("Report written to %s", reportOut))
	return nil
}
