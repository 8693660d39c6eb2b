package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trip-dashboard/internal/ingest"
)

var (
	cleanInput     string
	cleanOutput    string
	cleanLog       string
	cleanThreshold float64
	cleanEstimate  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean a raw trips CSV",
	Long: `Derive duration, speed and fare per km for every raw trip, drop trips
with bad times, impossible speeds or negative values, and mark speed
outliers as suspicious. Writes the cleaned CSV and a JSON cleaning log.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanInput, "input", "i", "", "Raw NYC taxi CSV")
	cleanCmd.Flags().StringVarP(&cleanOutput, "out", "o", "", "Cleaned CSV to write")
	cleanCmd.Flags().StringVar(&cleanLog, "log", "cleaning_log.json", "Cleaning log JSON to write")
	cleanCmd.Flags().Float64Var(&cleanThreshold, "threshold", ingest.SuspiciousThreshold, "Robust z-score marking a speed as suspicious")
	cleanCmd.Flags().BoolVar(&cleanEstimate, "estimate-distance", false, "Estimate missing distances from coordinates")
	cleanCmd.MarkFlagRequired("input")
	cleanCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	in, err := os.Open(cleanInput)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(cleanOutput)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()

	cleaner := ingest.NewCleaner(logger)
	cleaner.Threshold = cleanThreshold
	cleaner.EstimateDistance = cleanEstimate

	result, err := cleaner.Clean(in, out)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	logFile, err := os.Create(cleanLog)
	if err != nil {
		return fmt.Errorf("failed to create cleaning log: %w", err)
	}
	defer logFile.Close()
	if err := result.WriteJSON(logFile); err != nil {
		return fmt.Errorf("failed to write cleaning log: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Done. Clean rows: %d / %d\n", result.RowsClean, result.RowsTotal)
	fmt.Fprintf(cmd.OutOrStdout(), "Log written to %s\n", cleanLog)
	return nil
}
