// Package config loads the YAML configuration shared by the binaries.
package config

import (
	"fmt"
	"os"

	"github.com/go-yaml/yaml"

	"github.com/oriharu-heaven/ExpenseTracker/internal/receipt"
	"github.com/oriharu-heaven/ExpenseTracker/internal/sheetsync"
)

// StoreConfig selects and parameterizes the record store backend.
type StoreConfig struct {
	// Backend is "memory" or "bigquery".
	Backend   string `yaml:"backend"`
	ProjectID string `yaml:"project_id"`
	Dataset   string `yaml:"dataset"`
	Table     string `yaml:"table"`
}

// GeminiConfig parameterizes the receipt analyzer.
type GeminiConfig struct {
	Model string `yaml:"model"`
}

// SheetsConfig parameterizes the spreadsheet export.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	WriteRange    string `yaml:"write_range"`
}

// Config is the root configuration document.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Gemini GeminiConfig `yaml:"gemini"`
	Sheets SheetsConfig `yaml:"sheets"`
}

// Default returns the configuration used when no file is given: in-memory
// store, default Gemini model, no spreadsheet.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Backend: "memory", Dataset: "finance", Table: "expenses"},
		Gemini: GeminiConfig{Model: receipt.DefaultModelName},
		Sheets: SheetsConfig{WriteRange: sheetsync.DefaultWriteRange},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = receipt.DefaultModelName
	}
	if cfg.Sheets.WriteRange == "" {
		cfg.Sheets.WriteRange = sheetsync.DefaultWriteRange
	}
	return cfg, nil
}

// Validate checks cross-field requirements for the selected backend.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "bigquery":
		if c.Store.ProjectID == "" || c.Store.Dataset == "" || c.Store.Table == "" {
			return fmt.Errorf("config: bigquery backend needs project_id, dataset and table")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}
