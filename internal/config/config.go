// Package config loads the optional per-project pac.yaml (spec.md is
// silent on project configuration; SPEC_FULL.md §1.2 adds it as ambient
// tooling in the teacher's own yaml-overrides-defaults style).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Color controls whether the CLI's status chrome uses ANSI color.
// Auto defers to whether stdout is a terminal.
type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// Config holds pac.yaml's fields, all optional: absence of the file, or
// absence of any given field, falls back to Default().
type Config struct {
	BuildDir string `yaml:"build_dir"`
	Target   string `yaml:"target"`
	Width    int    `yaml:"width"`
	Color    Color  `yaml:"color"`
}

func Default() Config {
	return Config{
		BuildDir: "build/js/",
		Target:   "js",
		Width:    80,
		Color:    ColorAuto,
	}
}

// Load reads pac.yaml from dir, merging it over Default(). A missing file
// is not an error: the compiled-in defaults apply as-is.
func Load(dir string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, "pac.yaml"))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading pac.yaml: %w", err)
	}

	var overrides rawConfig
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Config{}, fmt.Errorf("parsing pac.yaml: %w", err)
	}
	overrides.applyTo(&cfg)

	if cfg.Color != ColorAuto && cfg.Color != ColorAlways && cfg.Color != ColorNever {
		return Config{}, fmt.Errorf("pac.yaml: invalid color %q (want auto, always, or never)", cfg.Color)
	}
	return cfg, nil
}

// rawConfig mirrors Config but with pointer/zero-value fields, so Load can
// tell "absent from the file" apart from "explicitly zero".
type rawConfig struct {
	BuildDir *string `yaml:"build_dir"`
	Target   *string `yaml:"target"`
	Width    *int    `yaml:"width"`
	Color    *Color  `yaml:"color"`
}

func (r rawConfig) applyTo(cfg *Config) {
	if r.BuildDir != nil {
		cfg.BuildDir = *r.BuildDir
	}
	if r.Target != nil {
		cfg.Target = *r.Target
	}
	if r.Width != nil {
		cfg.Width = *r.Width
	}
	if r.Color != nil {
		cfg.Color = *r.Color
	}
}
