package classify

import (
	"fmt"
	"os"
	"strconv"
)

// Config sets the confidence range the placeholder engine draws from.
type Config struct {
	MinConfidence float64 `toml:"min_confidence"`
	MaxConfidence float64 `toml:"max_confidence"`
}

// Env maps environment variable names for classification configuration.
type Env struct {
	MinConfidence string
	MaxConfidence string
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MinConfidence != 0 {
		c.MinConfidence = overlay.MinConfidence
	}
	if overlay.MaxConfidence != 0 {
		c.MaxConfidence = overlay.MaxConfidence
	}
}

func (c *Config) loadDefaults() {
	if c.MinConfidence == 0 {
		c.MinConfidence = 0.70
	}
	if c.MaxConfidence == 0 {
		c.MaxConfidence = 0.95
	}
}

func (c *Config) loadEnv(env *Env) {
	parse := func(name string, dst *float64) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}

	parse(env.MinConfidence, &c.MinConfidence)
	parse(env.MaxConfidence, &c.MaxConfidence)
}

func (c *Config) validate() error {
	if c.MinConfidence < 0 || c.MaxConfidence > 1 {
		return fmt.Errorf("confidence range must lie within [0, 1]")
	}
	if c.MinConfidence > c.MaxConfidence {
		return fmt.Errorf("min_confidence (%v) exceeds max_confidence (%v)", c.MinConfidence, c.MaxConfidence)
	}
	return nil
}
