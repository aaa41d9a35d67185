package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/color-lab/internal/analyses"
	"github.com/JaimeStill/color-lab/pkg/pagination"
)

// APIConfig configures the HTTP API surface.
type APIConfig struct {
	BasePath   string                  `toml:"base_path"`
	Pagination pagination.Config       `toml:"pagination"`
	Identity   analyses.IdentityConfig `toml:"identity"`
}

func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	c.Pagination.Merge(&overlay.Pagination)
	c.Identity.Merge(&overlay.Identity)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}
