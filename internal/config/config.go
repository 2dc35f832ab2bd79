// Package config holds the tunable parameters of the detector.
//
// The acceptance threshold, the scale step and the number of scaled template
// copies are explicit configuration passed to constructors, so the same
// binary can be evaluated across threshold values without rebuilding.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/ssodetect/internal/provider"
)

// Default configuration values.
const (
	// DefaultThreshold is the minimum normalized cross-correlation a template
	// variant must reach to count as a detection.
	DefaultThreshold = 0.92

	// DefaultScaleFactor is the shrink step between template variants.
	DefaultScaleFactor = 0.05

	// DefaultScaleVersions is the number of variants kept per template,
	// including the original.
	DefaultScaleVersions = 3

	// DefaultWorkers matches screenshots one at a time.
	DefaultWorkers = 1

	// DefaultPolicy accepts the first variant that clears the threshold.
	DefaultPolicy = "first"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds detector settings. Zero values are filled from the defaults
// by Load; callers building a Config by hand should start from Default().
type Config struct {
	// TemplateDir is the flat directory of <provider>-<name>.<ext> logos.
	TemplateDir string `yaml:"template_dir"`

	// Threshold applies to every provider without an override.
	Threshold float64 `yaml:"threshold"`

	// Thresholds overrides Threshold per provider id.
	Thresholds map[string]float64 `yaml:"thresholds,omitempty"`

	ScaleFactor   float64 `yaml:"scale_factor"`
	ScaleVersions int     `yaml:"scale_versions"`

	// Policy is "first" (stop at the first accepted variant) or "best"
	// (score every variant, keep the highest accepted one).
	Policy string `yaml:"policy"`

	// Workers bounds how many screenshots are matched concurrently.
	Workers int `yaml:"workers"`
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Threshold:     DefaultThreshold,
		ScaleFactor:   DefaultScaleFactor,
		ScaleVersions: DefaultScaleVersions,
		Policy:        DefaultPolicy,
		Workers:       DefaultWorkers,
	}
}

// Load reads a YAML configuration file on top of Default().
// A missing file yields ErrConfigNotFound.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := checkThreshold(c.Threshold); err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	for id, th := range c.Thresholds {
		if !provider.IsSupported(id) {
			return fmt.Errorf("thresholds: unsupported provider %q", id)
		}
		if err := checkThreshold(th); err != nil {
			return fmt.Errorf("thresholds[%s]: %w", id, err)
		}
	}
	if c.ScaleVersions < 1 {
		return fmt.Errorf("scale_versions must be at least 1, got %d", c.ScaleVersions)
	}
	if c.ScaleFactor < 0 {
		return fmt.Errorf("scale_factor must not be negative, got %v", c.ScaleFactor)
	}
	if c.ScaleFactor*float64(c.ScaleVersions-1) >= 1 {
		return fmt.Errorf("scale_factor %v with %d versions shrinks templates to nothing",
			c.ScaleFactor, c.ScaleVersions)
	}
	switch c.Policy {
	case "first", "best":
	default:
		return fmt.Errorf("policy must be \"first\" or \"best\", got %q", c.Policy)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// ThresholdFor returns the acceptance threshold for a provider.
func (c *Config) ThresholdFor(id string) float64 {
	if th, ok := c.Thresholds[id]; ok {
		return th
	}
	return c.Threshold
}

func checkThreshold(v float64) error {
	if v <= -1 || v > 1 {
		return fmt.Errorf("must be in (-1, 1], got %v", v)
	}
	return nil
}
