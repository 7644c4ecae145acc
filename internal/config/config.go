// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"sow-estimator/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Storage contains persistence settings
	Storage StorageConfig `json:"storage"`

	// Estimation contains estimation engine settings
	Estimation EstimationConfig `json:"estimation"`

	// Advisory contains advisory corrector settings
	Advisory AdvisoryConfig `json:"advisory"`

	// Catalog contains catalog override settings
	Catalog CatalogConfig `json:"catalog"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// StorageConfig contains persistence settings
type StorageConfig struct {
	// Driver selects the store backend (sqlite, postgres)
	Driver string `json:"driver"`

	// SQLitePath is the SQLite database path
	SQLitePath string `json:"sqlite_path"`

	// PostgresDSN is the Postgres connection string, used when
	// Driver is "postgres"
	PostgresDSN string `json:"postgres_dsn,omitempty"`
}

// EstimationConfig contains estimation engine settings
type EstimationConfig struct {
	// Mode selects the estimator parameterization (template, lightweight)
	Mode string `json:"mode"`

	// MinimumHours is the hard floor applied in lightweight mode
	MinimumHours int `json:"minimum_hours"`

	// CostRounding is the presentation rounding unit for total cost
	CostRounding int `json:"cost_rounding"`
}

// AdvisoryConfig contains advisory corrector settings
type AdvisoryConfig struct {
	// Enabled turns the external advisory call on
	Enabled bool `json:"enabled"`

	// Endpoint is the advisory service URL
	Endpoint string `json:"endpoint,omitempty"`

	// MaxAttempts caps retries of the advisory call
	MaxAttempts int `json:"max_attempts"`

	// TimeoutSeconds is the per-attempt timeout
	TimeoutSeconds int `json:"timeout_seconds"`
}

// CatalogConfig contains catalog override settings
type CatalogConfig struct {
	// OverridePath is an optional YAML file overriding the built-in
	// keyword tables and estimation templates
	OverridePath string `json:"override_path,omitempty"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".sow-estimator", "data.sqlite")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr: ":8080",
		},
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: dbPath,
		},
		Estimation: EstimationConfig{
			Mode:         "template",
			MinimumHours: 20,
			CostRounding: 100,
		},
		Advisory: AdvisoryConfig{
			Enabled:        false,
			MaxAttempts:    3,
			TimeoutSeconds: 15,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

// FromEnv applies environment overrides (set via .env or the process
// environment) on top of the current configuration.
func (c *Config) FromEnv() {
	if v := os.Getenv("SOW_DB_PATH"); v != "" {
		c.Storage.Driver = "sqlite"
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("SOW_POSTGRES_DSN"); v != "" {
		c.Storage.Driver = "postgres"
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("SOW_ADVISORY_URL"); v != "" {
		c.Advisory.Enabled = true
		c.Advisory.Endpoint = v
	}
	if v := os.Getenv("SOW_ADDR"); v != "" {
		c.Server.Addr = v
	}
}
