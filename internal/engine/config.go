package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hireloop/interview-engine/internal/domain"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Config tunes the scoring and termination behavior of the engine. Zero
// values are replaced by the production defaults, so an empty Config is
// valid input to New.
type Config struct {
	// MinimumThreshold is the running-mean floor marking poor
	// performance. Defaults to 40.
	MinimumThreshold float64 `yaml:"minimum_threshold" validate:"min=0,max=100"`

	// DecentThreshold is the running-mean bound below which a sustained
	// session is considered underperforming. Defaults to 60 and must not
	// be below MinimumThreshold.
	DecentThreshold float64 `yaml:"decent_threshold" validate:"min=0,max=100,gtefield=MinimumThreshold"`

	// MinTopics is the distinct-topic coverage required before any
	// performance-based early termination. Defaults to 5.
	MinTopics int `yaml:"min_topics" validate:"min=0,max=100"`

	// DurationLimitMs is the hard wall-clock ceiling on a session in
	// milliseconds, matching the caller-supplied elapsed time unit.
	// Defaults to 45 minutes.
	DurationLimitMs int64 `yaml:"duration_limit_ms" validate:"omitempty,min=60000,max=28800000"`
}

// DefaultConfig returns the production defaults matching the product's
// scoring bands.
func DefaultConfig() Config {
	return Config{
		MinimumThreshold: domain.DefaultMinimumThreshold,
		DecentThreshold:  domain.DefaultDecentThreshold,
		MinTopics:        domain.DefaultMinTopics,
		DurationLimitMs:  domain.DefaultDurationLimit.Milliseconds(),
	}
}

// withDefaults fills zero-valued fields with the production defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinimumThreshold == 0 {
		c.MinimumThreshold = d.MinimumThreshold
	}
	if c.DecentThreshold == 0 {
		c.DecentThreshold = d.DecentThreshold
	}
	if c.MinTopics == 0 {
		c.MinTopics = d.MinTopics
	}
	if c.DurationLimitMs == 0 {
		c.DurationLimitMs = d.DurationLimitMs
	}
	return c
}

// DurationLimit returns the wall-clock ceiling as a time.Duration.
func (c Config) DurationLimit() time.Duration {
	return time.Duration(c.DurationLimitMs) * time.Millisecond
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// policy converts the configuration into the domain termination policy.
func (c Config) policy() domain.TerminationPolicy {
	return domain.TerminationPolicy{
		MinimumThreshold: c.MinimumThreshold,
		DecentThreshold:  c.DecentThreshold,
		MinTopics:        c.MinTopics,
		DurationLimit:    c.DurationLimit(),
	}
}

// LoadConfig reads a YAML configuration file, overlays it on the defaults,
// and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
