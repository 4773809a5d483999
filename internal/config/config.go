// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the service configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// environment variables or CLI flags.
type Config struct {
	// Server
	Port         int `json:"port,omitempty"`          // HTTP listen port
	ReadTimeout  int `json:"read_timeout,omitempty"`  // Request read timeout in seconds
	WriteTimeout int `json:"write_timeout,omitempty"` // Response write timeout in seconds

	// Backends
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	// Matching
	MinScore int `json:"min_score,omitempty"` // Floor applied to match listings (0-100)
	PageSize int `json:"page_size,omitempty"` // Maximum results per match listing

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Values already set
// on the receiver are kept; env fills the gaps.
func (c *Config) FromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("config error: 'min_score' must be between 0 and 100")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("config error: 'page_size' must be non-negative")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ReadTimeout == 0 {
		result.ReadTimeout = defaults.ReadTimeout
	}
	if result.WriteTimeout == 0 {
		result.WriteTimeout = defaults.WriteTimeout
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}
	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration defaults. The write
// timeout is generous because explanation and query-enhancement
// endpoints wait on an LLM.
func Defaults() Config {
	return Config{
		Port:         8080,
		ReadTimeout:  15,
		WriteTimeout: 60,
		PageSize:     50,
	}
}
