// Package config loads and saves the analysis configuration as YAML.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/mrsinham/dicomqa/internal/dicom"
	"github.com/mrsinham/dicomqa/internal/quality"
	"gopkg.in/yaml.v3"
)

// Config is the complete analysis configuration.
type Config struct {
	Input      InputConfig     `yaml:"input"`
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Histogram  HistogramConfig `yaml:"histogram"`
	Output     OutputConfig    `yaml:"output"`
	Log        LogConfig       `yaml:"log"`
}

// InputConfig names the two acquisitions to compare.
type InputConfig struct {
	DataDir string `yaml:"data_dir"`
	Rest    string `yaml:"rest"`
	Stress  string `yaml:"stress"`
}

// ThresholdConfig holds the raw-intensity thresholds.
type ThresholdConfig struct {
	Signal int `yaml:"signal"`
	Motion int `yaml:"motion"`
}

// HistogramConfig controls intensity binning.
type HistogramConfig struct {
	Bins  int `yaml:"bins"`
	Range int `yaml:"range"`
}

// OutputConfig controls what the run prints and writes.
type OutputConfig struct {
	Dir          string   `yaml:"dir"`
	Plots        bool     `yaml:"plots"`
	DumpMetadata bool     `yaml:"dump_metadata"`
	Tags         []string `yaml:"tags,omitempty"`
}

// LogConfig sets diagnostic verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			DataDir: "data",
			Rest:    dicom.RestFilename,
			Stress:  dicom.StressFilename,
		},
		Thresholds: ThresholdConfig{
			Signal: int(quality.DefaultThreshold),
			Motion: int(quality.DefaultMotionThreshold),
		},
		Histogram: HistogramConfig{
			Bins:  quality.DefaultHistogramBins,
			Range: quality.DefaultHistogramRange,
		},
		Output: OutputConfig{
			Dir:          "plots",
			Plots:        true,
			DumpMetadata: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Input.Rest == "" || c.Input.Stress == "" {
		return fmt.Errorf("both rest and stress filenames are required")
	}
	if c.Thresholds.Signal <= 0 || c.Thresholds.Signal > math.MaxUint16 {
		return fmt.Errorf("signal threshold must be in 1..%d, got %d", math.MaxUint16, c.Thresholds.Signal)
	}
	if c.Thresholds.Motion < 0 || c.Thresholds.Motion > math.MaxUint16 {
		return fmt.Errorf("motion threshold must be in 0..%d, got %d", math.MaxUint16, c.Thresholds.Motion)
	}
	if c.Histogram.Bins <= 0 {
		return fmt.Errorf("histogram bins must be > 0, got %d", c.Histogram.Bins)
	}
	if c.Histogram.Range <= 0 {
		return fmt.Errorf("histogram range must be > 0, got %d", c.Histogram.Range)
	}
	if c.Output.Plots && c.Output.Dir == "" {
		return fmt.Errorf("output directory is required when plots are enabled")
	}
	return nil
}

// LoadFromYAML reads a configuration file. Missing keys keep their defaults.
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToYAML writes cfg to path, creating parent directories.
func SaveToYAML(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
