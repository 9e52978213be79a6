// Package config loads and validates the pipeline configuration.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".ukmm-release.yml"

// Config is the top-level ukmm-release configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Build     BuildConfig     `yaml:"build"`
	Profiles  []ProfileConfig `yaml:"profiles"`
	Preflight PreflightConfig `yaml:"preflight"`
	Signing   SigningConfig   `yaml:"signing"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App:       DefaultAppConfig(),
		Build:     DefaultBuildConfig(),
		Profiles:  DefaultProfiles(),
		Preflight: DefaultPreflightConfig(),
	}
}
