package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix shared by every environment variable
const EnvPrefix = "TRIP_DASH"

// LoadServerConfigWithViper loads server configuration using Viper
func LoadServerConfigWithViper(v *viper.Viper) (*Config, error) {
	setServerDefaults(v)
	setupServerEnvBinding(v)

	if err := loadConfigFile(v, "server"); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &Config{}
	if err := unmarshalServerConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadServerConfig loads server configuration using a fresh Viper instance
func LoadServerConfig() (*Config, error) {
	return LoadServerConfigWithViper(viper.New())
}

// LoadServerConfigWithFile loads server configuration from a specific file
func LoadServerConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadServerConfigWithViper(v)
}

// setServerDefaults sets default values for server configuration
func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.host", "127.0.0.1")

	v.SetDefault("database.path", "./db/nyc.sqlite")

	v.SetDefault("logging.level", "info")

	v.SetDefault("dashboard.api_url", "")
	v.SetDefault("dashboard.request_timeout", "15s")

	v.SetDefault("insights.anomaly_limit", 500)
}

// setupServerEnvBinding sets up environment variable binding for server configuration
func setupServerEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	envBindings := map[string]string{
		"server.port":               "SERVER_PORT",
		"server.host":               "SERVER_HOST",
		"database.path":             "DATABASE_PATH",
		"logging.level":             "LOGGING_LEVEL",
		"dashboard.api_url":         "DASHBOARD_API_URL",
		"dashboard.request_timeout": "DASHBOARD_TIMEOUT",
		"insights.anomaly_limit":    "ANOMALY_LIMIT",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, EnvPrefix+"_"+envSuffix)
	}
}

// loadConfigFile reads <name>.{yaml,json,toml} from the search paths if present
func loadConfigFile(v *viper.Viper, name string) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.trip-dashboard")
		v.SetConfigName(name)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// unmarshalServerConfig maps Viper keys onto the Config struct
func unmarshalServerConfig(v *viper.Viper, config *Config) error {
	config.ServerPort = v.GetString("server.port")
	config.ServerHost = v.GetString("server.host")
	config.DBPath = v.GetString("database.path")
	config.LogLevel = v.GetString("logging.level")
	config.DashboardAPIURL = v.GetString("dashboard.api_url")
	config.AnomalyLimit = v.GetInt("insights.anomaly_limit")

	timeout, err := time.ParseDuration(v.GetString("dashboard.request_timeout"))
	if err != nil {
		return fmt.Errorf("invalid dashboard request timeout: %w", err)
	}
	config.RequestTimeout = timeout

	return nil
}
