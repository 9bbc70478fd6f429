// Package config loads the router configuration from YAML with environment
// overrides. A missing config file is not an error; every field has a
// working default so a bare installation routes out of the box.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML and env unmarshaling from strings
// like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// UnmarshalText lets env.Parse fill Duration fields from STIGMERGY_* vars.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Config is the top-level stigmergy configuration.
type Config struct {
	// Tools restricts which adapters are registered. Empty means all
	// supported tools.
	Tools []string `yaml:"tools" env:"STIGMERGY_TOOLS" envSeparator:","`

	// Timeout bounds each delegated subprocess.
	Timeout Duration `yaml:"timeout" env:"STIGMERGY_TIMEOUT"`

	// MaxDepth bounds nested delegation chains.
	MaxDepth int `yaml:"max_depth" env:"STIGMERGY_MAX_DEPTH"`

	// DataDir holds the call log.
	DataDir string `yaml:"data_dir" env:"STIGMERGY_DATA_DIR"`

	// RoutingRules maps a source tool to the targets it may delegate to.
	// A source with no entry may delegate to any tool.
	RoutingRules map[string][]string `yaml:"routing_rules"`
}

const (
	defaultTimeout  = 120 * time.Second
	defaultMaxDepth = 3
)

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultDataDir returns the standard data directory.
func DefaultDataDir() string {
	return filepath.Join(baseDir(), "data")
}

func baseDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "stigmergy")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "stigmergy")
}

// Load reads, expands env vars, parses, overlays STIGMERGY_* environment
// variables, and validates the config at path. An empty path means
// DefaultPath; a missing file yields pure defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.Timeout.Duration == 0 {
		cfg.Timeout.Duration = defaultTimeout
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = defaultMaxDepth
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if cfg.MaxDepth < 1 {
		errs = append(errs, errors.New("max_depth must be at least 1"))
	}
	for _, tool := range cfg.Tools {
		if tool == "" {
			errs = append(errs, errors.New("tools must not contain empty names"))
			break
		}
	}
	for source, targets := range cfg.RoutingRules {
		if source == "" {
			errs = append(errs, errors.New("routing_rules keys must not be empty"))
			continue
		}
		if len(targets) == 0 {
			errs = append(errs, fmt.Errorf("routing_rules.%s must list at least one target", source))
		}
	}

	return errors.Join(errs...)
}
