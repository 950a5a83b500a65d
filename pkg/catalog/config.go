package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PentesterFlow/AppAtlas/internal/normalize"
	"github.com/PentesterFlow/AppAtlas/internal/risk"
)

// Config holds engine configuration. The indicator and stoplist values
// are explicit per-instance configuration rather than process globals, so
// engines with different vocabularies can coexist.
type Config struct {
	// Ordered keyword list for risk classification
	RiskIndicators []string `json:"risk_indicators" yaml:"risk_indicators"`

	// Path segments never extracted as parameters
	ParamStoplist []string `json:"param_stoplist" yaml:"param_stoplist"`

	// Output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Snapshot store configuration
	Snapshots SnapshotConfig `json:"snapshots" yaml:"snapshots"`

	// Verbose logging
	Verbose bool `json:"verbose" yaml:"verbose"`

	// Debug mode
	Debug bool `json:"debug" yaml:"debug"`
}

// OutputConfig holds catalog output settings.
type OutputConfig struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Pretty   bool   `json:"pretty" yaml:"pretty"`
}

// SnapshotConfig holds bolt snapshot store settings.
type SnapshotConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	DBPath  string `json:"db_path" yaml:"db_path"`
	Label   string `json:"label" yaml:"label"`
}

// DefaultConfig returns a configuration with the reference vocabulary.
func DefaultConfig() *Config {
	return &Config{
		RiskIndicators: append([]string(nil), risk.DefaultIndicators...),
		ParamStoplist:  append([]string(nil), normalize.DefaultStoplist...),
		Output: OutputConfig{
			Pretty: true,
		},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.RiskIndicators) == 0 {
		return fmt.Errorf("risk indicator list must not be empty")
	}

	if c.Snapshots.Enabled && c.Snapshots.DBPath == "" {
		return fmt.Errorf("snapshot store enabled without a database path")
	}

	return nil
}
