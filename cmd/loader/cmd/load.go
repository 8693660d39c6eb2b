package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"trip-dashboard/internal/database"
	"trip-dashboard/internal/ingest"
)

var (
	loadCSV       string
	loadDB        string
	loadBatchSize int
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a cleaned trips CSV into SQLite",
	Long: `Create the trips schema if needed and insert every row of the cleaned
CSV, committing every --batch-size rows. Empty and NaN values are stored
as NULL.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadCSV, "csv", "", "Cleaned trips CSV")
	loadCmd.Flags().StringVar(&loadDB, "db", "./db/nyc.sqlite", "SQLite database to create or extend")
	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", ingest.DefaultBatchSize, "Rows per transaction")
	loadCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(loadCmd)
}

// databasePath resolves --db, then TRIP_DASH_DATABASE_PATH, then the default
func databasePath(cmd *cobra.Command) string {
	v := viper.New()
	v.BindPFlag("database.path", cmd.Flags().Lookup("db"))
	v.BindEnv("database.path", "TRIP_DASH_DATABASE_PATH")
	return v.GetString("database.path")
}

func runLoad(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	dbPath := databasePath(cmd)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	in, err := os.Open(loadCSV)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer in.Close()

	logger.Info("Loading trips", "csv", loadCSV, "db", dbPath)

	n, err := ingest.NewLoader(db.Trips, logger).WithBatchSize(loadBatchSize).Load(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("load stopped after %d rows: %w", n, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d rows into %s\n", n, dbPath)
	return nil
}
