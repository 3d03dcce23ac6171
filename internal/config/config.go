// Package config loads the optional YAML file accepted via --config. The
// file supplies defaults for CLI flags; a flag explicitly set by the user
// always wins.
package config

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajilach/project-renamer/internal/fail"
)

// File mirrors the YAML document.
type File struct {
	Name     string   `yaml:"name"`
	Input    string   `yaml:"input"`
	Exclude  []string `yaml:"exclude"`
	Manifest string   `yaml:"manifest"`
}

// Parse reads and decodes the config file at name.
func Parse(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		return File{}, fail.IO(name, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return File{}, fail.IO(name, err)
	}

	var cfg File
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return File{}, fail.Invalidf("config %s: %v", name, err)
	}
	return cfg, nil
}
