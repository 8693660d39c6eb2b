package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Config holds the trips API server configuration
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBPath string

	// Logging
	LogLevel string

	// Dashboard page configuration. An empty DashboardAPIURL points the
	// server-rendered dashboard at this server.
	DashboardAPIURL string
	RequestTimeout  time.Duration

	// Insights
	AnomalyLimit int
}

// validLogLevels lists the accepted logging.level values
var validLogLevels = []string{"debug", "info", "warn", "error"}

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid server port: %s", c.ServerPort)
	}

	if c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	isValidLogLevel := false
	for _, level := range validLogLevels {
		if c.LogLevel == level {
			isValidLogLevel = true
			break
		}
	}
	if !isValidLogLevel {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.DashboardAPIURL != "" && !strings.HasPrefix(c.DashboardAPIURL, "http://") && !strings.HasPrefix(c.DashboardAPIURL, "https://") {
		return fmt.Errorf("invalid dashboard API URL format: %s", c.DashboardAPIURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	if c.AnomalyLimit < 1 {
		return fmt.Errorf("anomaly limit must be at least 1")
	}

	return nil
}

// Address returns the full server address
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// SelfURL returns the base URL the server can reach itself on
func (c *Config) SelfURL() string {
	host := c.ServerHost
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + host + ":" + c.ServerPort
}

// DashboardBaseURL returns the API base URL used by the dashboard page
func (c *Config) DashboardBaseURL() string {
	if c.DashboardAPIURL != "" {
		return c.DashboardAPIURL
	}
	return c.SelfURL()
}

// SlogLevel maps the configured log level to a slog.Level
func (c *Config) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel maps debug/info/warn/error to a slog.Level, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
