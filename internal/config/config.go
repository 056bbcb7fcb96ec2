// Package config loads the optional .execdiff.yaml settings file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file looked for in the working directory when
// no explicit path is given.
const DefaultFile = ".execdiff.yaml"

// Config holds tool settings. Zero values defer to Default.
type Config struct {
	// Workers caps how many logs parse concurrently. 0 means one goroutine
	// per log.
	Workers int `yaml:"workers"`

	// Progress enables parse-progress reporting on stderr.
	Progress bool `yaml:"progress"`

	// ProgressIntervalMs is the minimum time between progress lines.
	ProgressIntervalMs int `yaml:"progress_interval_ms"`

	// Color controls styled output: "auto", "always", or "never".
	Color string `yaml:"color"`

	// Suggestions caps fuzzy "did you mean" candidates in the shell.
	Suggestions int `yaml:"suggestions"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Workers:            0,
		Progress:           false,
		ProgressIntervalMs: 500,
		Color:              "auto",
		Suggestions:        50,
	}
}

// Load reads settings from path, or from DefaultFile when path is empty.
// A missing file yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always, or never; got %q", c.Color)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Suggestions < 0 {
		return fmt.Errorf("suggestions must be >= 0, got %d", c.Suggestions)
	}
	return nil
}
