package analyses

import (
	"fmt"
	"os"
)

// IdentityEnv maps environment variable names for identity configuration.
type IdentityEnv struct {
	UserIDHeader string
	EmailHeader  string
}

// IdentityConfig names the request headers carrying the caller identity.
type IdentityConfig struct {
	UserIDHeader string `toml:"user_id_header"`
	EmailHeader  string `toml:"email_header"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *IdentityConfig) Finalize(env *IdentityEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-empty values from overlay.
func (c *IdentityConfig) Merge(overlay *IdentityConfig) {
	if overlay.UserIDHeader != "" {
		c.UserIDHeader = overlay.UserIDHeader
	}
	if overlay.EmailHeader != "" {
		c.EmailHeader = overlay.EmailHeader
	}
}

func (c *IdentityConfig) loadDefaults() {
	if c.UserIDHeader == "" {
		c.UserIDHeader = "X-User-ID"
	}
	if c.EmailHeader == "" {
		c.EmailHeader = "X-User-Email"
	}
}

func (c *IdentityConfig) loadEnv(env *IdentityEnv) {
	if v := os.Getenv(env.UserIDHeader); env.UserIDHeader != "" && v != "" {
		c.UserIDHeader = v
	}
	if v := os.Getenv(env.EmailHeader); env.EmailHeader != "" && v != "" {
		c.EmailHeader = v
	}
}

func (c *IdentityConfig) validate() error {
	if c.UserIDHeader == c.EmailHeader {
		return fmt.Errorf("user_id_header and email_header must differ")
	}
	return nil
}
