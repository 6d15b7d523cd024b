package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qri-io/jsondiff"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for the jsondiff command
type Config struct {
	// Arrays is the array comparison policy, "lcs" or "simple"
	Arrays string       `yaml:"arrays"`
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
	Dev    DevConfig    `yaml:"dev"`
}

// OutputConfig controls what the diff command prints
type OutputConfig struct {
	// Format is one of pretty, list, patch or json
	Format string `yaml:"format"`
	// Stats appends a summary line to diff output
	Stats bool `yaml:"stats"`
}

// RenderConfig controls the pretty renderer
type RenderConfig struct {
	// Color is one of auto, always or never
	Color         string `yaml:"color"`
	Indent        int    `yaml:"indent"`
	InlineStrings bool   `yaml:"inline_strings"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// output formats
const (
	FormatPretty = "pretty"
	FormatList   = "list"
	FormatPatch  = "patch"
	FormatJSON   = "json"
)

// color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Arrays: jsondiff.ArrayLCS.String(),
		Output: OutputConfig{
			Format: FormatPretty,
			Stats:  false,
		},
		Render: RenderConfig{
			Color:         ColorAuto,
			Indent:        4,
			InlineStrings: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	configNames := []string{".jsondiff.yml", ".jsondiff.yaml"}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			return ""
		}
		dir = parentDir
	}
}

// Validate checks every enumerated setting
func (c *Config) Validate() error {
	if _, ok := jsondiff.ParseArrayPolicy(c.Arrays); !ok {
		return fmt.Errorf("invalid arrays policy %q: must be lcs or simple", c.Arrays)
	}
	switch c.Output.Format {
	case FormatPretty, FormatList, FormatPatch, FormatJSON:
	default:
		return fmt.Errorf("invalid output format %q: must be one of pretty, list, patch, json", c.Output.Format)
	}
	switch c.Render.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q: must be one of auto, always, never", c.Render.Color)
	}
	if c.Render.Indent < 0 || c.Render.Indent > 16 {
		return fmt.Errorf("invalid indent %d: must be between 0 and 16", c.Render.Indent)
	}
	return nil
}

// ArrayPolicy returns the configured array comparison policy
func (c *Config) ArrayPolicy() jsondiff.ArrayPolicy {
	p, _ := jsondiff.ParseArrayPolicy(c.Arrays)
	return p
}
