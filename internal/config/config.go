// Package config loads the server daemon's YAML configuration.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Listen   string `yaml:"listen"`
	DataDir  string `yaml:"dataDir"`
	InMemory bool   `yaml:"inMemory"`
	LogLevel string `yaml:"logLevel"`
}

// Defaults returns a runnable configuration for local use.
func Defaults() Config {
	return Config{
		Listen:   ":8080",
		DataDir:  "./data",
		LogLevel: "info",
	}
}

// Load reads path and fills unset fields with defaults. A missing file
// is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.DataDir == "" && !cfg.InMemory {
		cfg.DataDir = "./data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
