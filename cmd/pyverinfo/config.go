package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds defaults that flags may override.
type Config struct {
	// Database is the default database source (file path or URL).
	Database string `yaml:"database"`
	// CacheDir overrides the on-disk HTTP cache location.
	CacheDir string `yaml:"cache_dir"`
}

// defaultConfigPath returns the per-user config location, or "" if the
// user config directory cannot be determined.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pyverinfo", "config.yaml")
}

// loadConfig reads the config file at path. When path is empty the default
// location is used, and a missing file there is not an error; an
// explicitly given path must exist.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
