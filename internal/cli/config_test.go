package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "http://127.0.0.1:5000", config.ServerURL)
	assert.Equal(t, "table", config.Format)
	assert.False(t, config.Quiet)
	assert.False(t, config.NoColor)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{
			name:    "empty server URL",
			modify:  func(c *Config) { c.ServerURL = "  " },
			wantErr: "server URL cannot be empty",
		},
		{
			name:    "server URL without scheme",
			modify:  func(c *Config) { c.ServerURL = "localhost:5000" },
			wantErr: "invalid server URL format",
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Format = "csv" },
			wantErr: "invalid format: csv",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: "request timeout must be positive",
		},
		{
			name:   "json format with https",
			modify: func(c *Config) { c.Format = "json"; c.ServerURL = "https://api.example.com" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
