package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the YAML form of a benchmark run, an alternative to passing
// everything as flags.
type RunConfig struct {
	Problem    string `yaml:"problem"`
	Optimizer  string `yaml:"optimizer"`
	Iterations int    `yaml:"iterations"`
	PopSize    int    `yaml:"pop_size"`
	Seed       int64  `yaml:"seed"`
	DataPath   string `yaml:"data_path"`
	OutDir     string `yaml:"out_dir"`
}

// defaultRunConfig mirrors the flag defaults.
func defaultRunConfig() RunConfig {
	return RunConfig{
		Problem:    "ikr",
		Optimizer:  "ga",
		Iterations: 50,
		PopSize:    50,
		Seed:       42,
		OutDir:     "./data",
	}
}

// loadRunConfig reads a YAML run configuration on top of the defaults.
func loadRunConfig(path string) (RunConfig, error) {
	cfg := defaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing run config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *RunConfig) validate() error {
	if c.Problem == "" {
		return fmt.Errorf("run config: problem cannot be empty")
	}
	if c.Optimizer == "" {
		return fmt.Errorf("run config: optimizer cannot be empty")
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("run config: iterations must be positive")
	}
	if c.PopSize <= 0 {
		return fmt.Errorf("run config: pop_size must be positive")
	}
	return nil
}
