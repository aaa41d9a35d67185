package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/pkg/workers"
)

// AnalysisConfig configures the classification pipeline.
type AnalysisConfig struct {
	Workers  workers.Config  `toml:"workers"`
	Classify classify.Config `toml:"classify"`
	// WaitTimeout bounds how long an upload request with wait=true blocks
	// before answering 202 with the pending submission.
	WaitTimeout string `toml:"wait_timeout"`
}

// WaitTimeoutDuration parses and returns the wait timeout as a time.Duration.
func (c *AnalysisConfig) WaitTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WaitTimeout)
	return d
}

func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Workers.Finalize(workersEnv); err != nil {
		return fmt.Errorf("workers: %w", err)
	}
	if err := c.Classify.Finalize(classifyEnv); err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	return nil
}

func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.WaitTimeout != "" {
		c.WaitTimeout = overlay.WaitTimeout
	}
	c.Workers.Merge(&overlay.Workers)
	c.Classify.Merge(&overlay.Classify)
}

func (c *AnalysisConfig) loadDefaults() {
	if c.WaitTimeout == "" {
		c.WaitTimeout = "30s"
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv("ANALYSIS_WAIT_TIMEOUT"); v != "" {
		c.WaitTimeout = v
	}
}

func (c *AnalysisConfig) validate() error {
	d, err := time.ParseDuration(c.WaitTimeout)
	if err != nil {
		return fmt.Errorf("invalid wait_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("wait_timeout must be positive")
	}
	return nil
}
