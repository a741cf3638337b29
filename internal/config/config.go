package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Parse   ParseConfig   `mapstructure:"parse"`
	API     APIConfig     `mapstructure:"api"`
	Scripts ScriptsConfig `mapstructure:"scripts"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ParseConfig holds configuration for log parsing
type ParseConfig struct {
	DeviceType string `mapstructure:"device-type"`
	Workers    int    `mapstructure:"workers"`
	BatchSize  int    `mapstructure:"batch-size"`
	Output     string `mapstructure:"output"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScriptsConfig holds configuration for user-authored parser scripts
type ScriptsConfig struct {
	Directory string   `mapstructure:"directory"`
	Enabled   []string `mapstructure:"enabled"`
}

// Load loads configuration from viper
func Load() (*Config, error) {
	config := &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Parse: ParseConfig{
			DeviceType: "auto",
			Workers:    4,
			BatchSize:  100,
			Output:     "json",
		},
		API: APIConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: time.Second * 60,
		},
		Scripts: ScriptsConfig{
			Directory: "./scripts",
			Enabled:   []string{},
		},
	}

	// Extract script list from comma-separated list if not provided as a slice
	enabledScripts := viper.GetString("scripts.enabled")
	if enabledScripts != "" {
		config.Scripts.Enabled = strings.Split(enabledScripts, ",")
	} else {
		config.Scripts.Enabled = viper.GetStringSlice("scripts.enabled")
	}

	// Load the rest from viper
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig performs validation on the loaded config
func validateConfig(config *Config) error {
	// Validate log level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(config.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate worker count
	if config.Parse.Workers < 1 {
		return fmt.Errorf("invalid worker count: %d (must be at least 1)", config.Parse.Workers)
	}

	// Validate batch size
	if config.Parse.BatchSize < 1 {
		return fmt.Errorf("invalid batch size: %d (must be at least 1)", config.Parse.BatchSize)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"json":  true,
		"table": true,
	}
	if !validOutputs[strings.ToLower(config.Parse.Output)] {
		return fmt.Errorf("invalid output format: %s", config.Parse.Output)
	}

	return nil
}
