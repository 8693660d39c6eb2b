package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"trip-dashboard/internal/cli"
	"trip-dashboard/internal/config"
	"trip-dashboard/internal/database"
	"trip-dashboard/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("Database initialized", "path", cfg.DBPath)

	// The web page reads its data through the same HTTP API as the CLI
	fetcher := cli.NewClientWithTimeout(cfg.DashboardBaseURL(), cfg.RequestTimeout)
	handlers := server.NewHandlers(db, fetcher, cfg.AnomalyLimit, logger)

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: server.NewRouter(handlers, logger),

		// Timeouts
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Dashboard data source", "api_url", cfg.DashboardBaseURL())

	// Handle server startup and graceful shutdown
	shutdownTimeout := 30 * time.Second
	if err := server.HandleSignals(srv, shutdownTimeout, logger); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
