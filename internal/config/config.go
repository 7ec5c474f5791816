// Package config loads the ChoreChart YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultEnsureCron = "5 0 * * *" // shortly after local midnight

type Config struct {
	// DBPath overrides the default database location.
	DBPath string `yaml:"db_path"`

	// Timezone is the IANA zone that defines the household's day boundary
	// (e.g. "Europe/Berlin"). Empty means system local time.
	Timezone string `yaml:"timezone"`

	// DisableSeed skips seeding the starter task catalog on first run.
	DisableSeed bool `yaml:"disable_seed"`

	// EnsureCron is the 5-field cron spec for the watch command's daily
	// checklist instantiation.
	EnsureCron string `yaml:"ensure_cron"`
}

// DefaultPath returns ~/.chorechart.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".chorechart.yaml"), nil
}

// Load reads the config at path. A missing file yields defaults, not an
// error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.EnsureCron == "" {
		c.EnsureCron = defaultEnsureCron
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
