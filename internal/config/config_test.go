package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"user_id": "550e8400-e29b-41d4-a716-446655440000",
		"exemplar_url": "https://example.com/story",
		"output_dir": "runs",
		"candidates": 5,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", cfg.UserID)
	assert.Equal(t, "https://example.com/story", cfg.ExemplarURL)
	assert.Equal(t, "runs", cfg.OutputDir)
	assert.Equal(t, 5, cfg.Candidates)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate_MutuallyExclusiveExemplarSources(t *testing.T) {
	cfg := &Config{
		Exemplar:    "exemplar.txt",
		ExemplarURL: "https://example.com/story",
	}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_NumericRanges(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative candidates", Config{Candidates: -1}},
		{"negative rounds", Config{Rounds: -2}},
		{"negative max attempts", Config{MaxAttempts: -1}},
		{"temperature too high", Config{Temperature: 2.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestValidate_MissingSpecFile(t *testing.T) {
	cfg := &Config{Spec: "/nonexistent/spec.json"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "spec file not found")
}

func TestValidate_ZeroConfigIsValid(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Spec:       "spec.json",
		Candidates: 5,
	}
	defaults := Config{
		Spec:        "ignored.json",
		OutputDir:   "runs",
		Candidates:  3,
		Rounds:      5,
		Temperature: 0.7,
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win
	assert.Equal(t, "spec.json", merged.Spec)
	assert.Equal(t, 5, merged.Candidates)

	// Missing values come from defaults
	assert.Equal(t, "runs", merged.OutputDir)
	assert.Equal(t, 5, merged.Rounds)
	assert.InDelta(t, 0.7, merged.Temperature, 1e-9)
}

func TestMergeWithDefaults_TemperatureFallback(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.InDelta(t, 0.85, merged.Temperature, 1e-9)
}
