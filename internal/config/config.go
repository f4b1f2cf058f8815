// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Spec        string `json:"spec,omitempty"`         // Path to story spec JSON file
	Exemplar    string `json:"exemplar,omitempty"`     // Path to exemplar text file
	ExemplarURL string `json:"exemplar_url,omitempty"` // URL to fetch the exemplar from
	OutputDir   string `json:"output_dir,omitempty"`   // Root directory for run artifacts

	// Candidate Info
	UserID string `json:"user_id,omitempty"` // User UUID (required for DB-based runs)

	// Pipeline knobs
	Candidates  int     `json:"candidates,omitempty"`   // Candidates per optimization round
	Rounds      int     `json:"rounds,omitempty"`       // Maximum optimization rounds
	MaxAttempts int     `json:"max_attempts,omitempty"` // Guard retry budget per beat
	Temperature float64 `json:"temperature,omitempty"`  // Initial sampling temperature

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA sites
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	Parallel    bool   `json:"parallel,omitempty"`     // Generate candidates concurrently
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Exemplar != "" && c.ExemplarURL != "" {
		return fmt.Errorf("config error: 'exemplar' and 'exemplar_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Candidates < 0 {
		return fmt.Errorf("config error: 'candidates' must be non-negative")
	}
	if c.Rounds < 0 {
		return fmt.Errorf("config error: 'rounds' must be non-negative")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 1.5 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 1.5, got %g", c.Temperature)
	}

	// Validate file paths exist (if specified)
	if c.Spec != "" {
		if _, err := os.Stat(c.Spec); os.IsNotExist(err) {
			return fmt.Errorf("config error: spec file not found: %s", c.Spec)
		}
	}

	if c.Exemplar != "" {
		if _, err := os.Stat(c.Exemplar); os.IsNotExist(err) {
			return fmt.Errorf("config error: exemplar file not found: %s", c.Exemplar)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Spec == "" {
		result.Spec = defaults.Spec
	}
	if result.Exemplar == "" {
		result.Exemplar = defaults.Exemplar
	}
	if result.ExemplarURL == "" {
		result.ExemplarURL = defaults.ExemplarURL
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Candidates == 0 {
		result.Candidates = defaults.Candidates
	}
	if result.Rounds == 0 {
		result.Rounds = defaults.Rounds
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}

	// Float fields
	if result.Temperature == 0 {
		if defaults.Temperature > 0 {
			result.Temperature = defaults.Temperature
		} else {
			result.Temperature = 0.85 // Default drafting temperature
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
