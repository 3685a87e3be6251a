package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the emission comparison dashboard
type Config struct {
	// Server configuration
	Port        string        `env:"PORT,default=8050"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT,default=30s"`

	// Dataset location: a local path, gs://bucket/object or an http(s) URL
	DataPath      string `env:"DATA_PATH,default=data/running_mvs_2014b_3.csv"`
	DataDelimiter string `env:"DATA_DELIMITER,default=,"`

	// Page configuration
	DashboardTitle    string `env:"DASHBOARD_TITLE,default=MOVES 2014b vs. MOVES 3 Running Emission Comparison for El Paso"`
	NotesPath         string `env:"NOTES_PATH"`
	EChartsAssetsHost string `env:"ECHARTS_ASSETS_HOST,default=https://go-echarts.github.io/go-echarts-assets/assets/"`

	// Initial selection shown when the page loads
	DefaultPollutant  string `env:"DEFAULT_POLLUTANT,default=CO"`
	DefaultSourceType string `env:"DEFAULT_SOURCE_TYPE,default=Passenger Car"`
	DefaultFuelType   string `env:"DEFAULT_FUEL_TYPE,default=Gasoline"`
	DefaultYear       int    `env:"DEFAULT_YEAR,default=2020"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from a .env file (when present) and environment variables
func Load(ctx context.Context) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("DATA_PATH must not be empty")
	}
	if len([]rune(c.DataDelimiter)) != 1 {
		return fmt.Errorf("DATA_DELIMITER must be a single character, got %q", c.DataDelimiter)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// Delimiter returns the dataset field separator as a rune
func (c *Config) Delimiter() rune {
	r := []rune(c.DataDelimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// loadDotEnv applies variables from path without overriding the real environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
