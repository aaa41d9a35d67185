package workers

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config sizes a Pool.
type Config struct {
	// Core workers start with the pool and never retire.
	Core int `toml:"core"`
	// Max bounds core plus burst workers.
	Max int `toml:"max"`
	// Backlog is the depth of the pending task queue.
	Backlog int `toml:"backlog"`
	// IdleTimeout retires a burst worker after this long without work.
	IdleTimeout string `toml:"idle_timeout"`
	// ShutdownTimeout bounds how long shutdown waits for queued and running tasks.
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Env maps environment variable names for pool configuration.
type Env struct {
	Core            string
	Max             string
	Backlog         string
	IdleTimeout     string
	ShutdownTimeout string
}

func (c *Config) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
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
	if overlay.Core != 0 {
		c.Core = overlay.Core
	}
	if overlay.Max != 0 {
		c.Max = overlay.Max
	}
	if overlay.Backlog != 0 {
		c.Backlog = overlay.Backlog
	}
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Core == 0 {
		c.Core = 10
	}
	if c.Max == 0 {
		c.Max = 50
	}
	if c.Backlog == 0 {
		c.Backlog = 100
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30s"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	atoi := func(name string, dst *int) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	atoi(env.Core, &c.Core)
	atoi(env.Max, &c.Max)
	atoi(env.Backlog, &c.Backlog)

	if env.IdleTimeout != "" {
		if v := os.Getenv(env.IdleTimeout); v != "" {
			c.IdleTimeout = v
		}
	}
	if env.ShutdownTimeout != "" {
		if v := os.Getenv(env.ShutdownTimeout); v != "" {
			c.ShutdownTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Core < 1 {
		return fmt.Errorf("core must be positive")
	}
	if c.Max < c.Core {
		return fmt.Errorf("max (%d) cannot be less than core (%d)", c.Max, c.Core)
	}
	if c.Backlog < 0 {
		return fmt.Errorf("backlog cannot be negative")
	}
	if d, err := time.ParseDuration(c.IdleTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid idle_timeout: %q", c.IdleTimeout)
	}
	if d, err := time.ParseDuration(c.ShutdownTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid shutdown_timeout: %q", c.ShutdownTimeout)
	}
	return nil
}
