package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trip-dashboard/internal/dashboard"
	"trip-dashboard/internal/snapshot"
)

var (
	snapshotURL     string
	snapshotOut     string
	snapshotTimeout time.Duration
	snapshotWindow  bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture the web dashboard as a PNG",
	Long: `Open the web dashboard in a headless Chrome, wait for the trips
table and save a full page screenshot. The page URL defaults to the
server address with --start and --end applied.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "Dashboard page URL (default is the server root)")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "dashboard.png", "Image file to write")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "browser-timeout", 30*time.Second, "Time allowed for the page to render")
	snapshotCmd.Flags().BoolVar(&snapshotWindow, "show-browser", false, "Run Chrome with a visible window")
	rootCmd.AddCommand(snapshotCmd)
}

// dashboardPageURL is the web dashboard under serverURL for the date range
func dashboardPageURL(serverURL string, r dashboard.DateRange) string {
	page := strings.TrimSuffix(serverURL, "/") + "/"
	if q := dashboard.BuildQuery(r); q != "" {
		page += "?" + q
	}
	return page
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	s, err := newSession(os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	pageURL := snapshotURL
	if pageURL == "" {
		pageURL = dashboardPageURL(s.cfg.ServerURL, dateRange())
	}

	opts := snapshot.DefaultOptions()
	opts.Timeout = snapshotTimeout
	opts.Headless = !snapshotWindow
	opts.UserAgent = "trip-dashboard/" + Version

	result, err := snapshot.NewCapturer(opts, s.logger).Capture(cmd.Context(), pageURL)
	if err != nil {
		s.formatter.PrintError(err)
		return alreadyReported(err)
	}

	if err := os.WriteFile(snapshotOut, result.Image, 0644); err != nil {
		err = fmt.Errorf("failed to write snapshot: %w", err)
		s.formatter.PrintError(err)
		return alreadyReported(err)
	}

	if result.Notice != "" {
		s.formatter.Notify(result.Notice)
	}
	s.formatter.PrintSuccess(fmt.Sprintf("Snapshot of %s written to %s", pageURL, snapshotOut))
	return nil
}
