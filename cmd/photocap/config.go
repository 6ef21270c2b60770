package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileDefaults are optional per-user defaults loaded from a YAML file.
// Command-line flags take precedence over every field.
type fileDefaults struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Style    string `yaml:"style"`
}

// loadDefaults reads a YAML defaults file. An empty path yields zero
// defaults. Environment variables referenced as ${VAR} or $VAR in the YAML
// are expanded before parsing.
func loadDefaults(path string) (fileDefaults, error) {
	if path == "" {
		return fileDefaults{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return fileDefaults{}, fmt.Errorf("load defaults: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var defaults fileDefaults
	if err := yaml.Unmarshal([]byte(expanded), &defaults); err != nil {
		return fileDefaults{}, fmt.Errorf("parse defaults: %w", err)
	}

	return defaults, nil
}
