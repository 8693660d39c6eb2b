package cli

import (
	"fmt"
	"strings"
	"time"
)

// Config holds dashboard CLI configuration
type Config struct {
	ServerURL      string        `json:"server_url"`
	Format         string        `json:"format"`
	Quiet          bool          `json:"quiet"`
	NoColor        bool          `json:"no_color"`
	RequestTimeout time.Duration `json:"request_timeout"`
	LogFile        string        `json:"log_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://127.0.0.1:5000",
		Format:         "table",
		Quiet:          false,
		RequestTimeout: 30 * time.Second,
	}
}

// ValidFormats lists the supported output formats
var ValidFormats = []string{"table", "json"}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("invalid server URL format: %s", c.ServerURL)
	}

	isValidFormat := false
	for _, format := range ValidFormats {
		if c.Format == format {
			isValidFormat = true
			break
		}
	}
	if !isValidFormat {
		return fmt.Errorf("invalid format: %s (must be one of: %s)", c.Format, strings.Join(ValidFormats, ", "))
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	return nil
}
