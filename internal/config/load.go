package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file Load searches for.
const FileName = "config.yaml"

// Load builds the effective config: Default, then the YAML file, then the
// command-line overrides. The result is validated.
func Load(o Overrides) (*Config, error) {
	cfg := Default()

	path := o.ConfigPath
	if path == "" {
		path = locate()
	}
	if path != "" {
		if err := decodeFile(cfg, path); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SearchPaths lists where Load looks when no path is given, first match
// wins.
func SearchPaths() []string {
	return []string{FileName, filepath.Join(ConfigDir(), FileName)}
}

func locate() string {
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for glscene.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".glscene"
	}
	return filepath.Join(base, "glscene")
}

// decodeFile overlays the YAML at path onto cfg. Keys that match no
// setting are rejected; an empty file changes nothing.
func decodeFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
