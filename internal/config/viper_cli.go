package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"trip-dashboard/internal/cli"
)

// LoadCLIConfigWithViper loads dashboard CLI configuration using Viper.
// Flags bound to v with BindPFlag take precedence over env and file values.
func LoadCLIConfigWithViper(v *viper.Viper) (*cli.Config, error) {
	setCLIDefaults(v)
	setupCLIEnvBinding(v)

	if err := loadConfigFile(v, "cli"); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &cli.Config{}
	if err := unmarshalCLIConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadCLIConfig loads CLI configuration using a fresh Viper instance
func LoadCLIConfig() (*cli.Config, error) {
	return LoadCLIConfigWithViper(viper.New())
}

// LoadCLIConfigWithFile loads CLI configuration from a specific file
func LoadCLIConfigWithFile(configFile string) (*cli.Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadCLIConfigWithViper(v)
}

// setCLIDefaults sets default values for CLI configuration
func setCLIDefaults(v *viper.Viper) {
	defaults := cli.DefaultConfig()
	v.SetDefault("server_url", defaults.ServerURL)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("no_color", defaults.NoColor)
	v.SetDefault("request_timeout", defaults.RequestTimeout.String())
	v.SetDefault("log_file", "")
}

// setupCLIEnvBinding sets up environment variable binding for CLI configuration
func setupCLIEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	envBindings := map[string]string{
		"server_url":      "CLI_SERVER_URL",
		"format":          "CLI_FORMAT",
		"quiet":           "CLI_QUIET",
		"request_timeout": "CLI_TIMEOUT",
		"log_file":        "CLI_LOG_FILE",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, EnvPrefix+"_"+envSuffix)
	}

	// NO_COLOR is honored alongside the prefixed variable
	v.BindEnv("no_color", EnvPrefix+"_CLI_NO_COLOR", "NO_COLOR")
}

// unmarshalCLIConfig maps Viper keys onto the CLI Config struct
func unmarshalCLIConfig(v *viper.Viper, config *cli.Config) error {
	config.ServerURL = strings.TrimSuffix(v.GetString("server_url"), "/")
	config.Format = v.GetString("format")
	config.Quiet = v.GetBool("quiet")
	config.NoColor = v.GetBool("no_color")
	config.LogFile = v.GetString("log_file")

	timeout, err := parseTimeout(v.GetString("request_timeout"))
	if err != nil {
		return err
	}
	config.RequestTimeout = timeout

	return nil
}

// parseTimeout accepts a Go duration ("45s") or a number of seconds ("45")
func parseTimeout(value string) (time.Duration, error) {
	if value == "" {
		return cli.DefaultConfig().RequestTimeout, nil
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration, nil
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid request timeout: %s", value)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("request timeout must be positive, got %d seconds", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}
