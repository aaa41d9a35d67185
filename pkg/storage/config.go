package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

// Config contains upload storage configuration.
type Config struct {
	// BasePath is the root directory for stored uploads.
	// Default: "uploads"
	BasePath      string `toml:"base_path"`
	MaxUploadSize string `toml:"max_upload_size"`
	// AllowedExtensions lists lower-cased extensions including the leading dot.
	AllowedExtensions []string `toml:"allowed_extensions"`
	// VerifyContent enables image header sniffing on upload.
	VerifyContent    bool `toml:"verify_content"`
	maxUploadSizeVal int64
}

type Env struct {
	BasePath          string
	MaxUploadSize     string
	AllowedExtensions string
	VerifyContent     string
}

// DefaultAllowedExtensions are the image extensions accepted when none are configured.
var DefaultAllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if size, err := units.RAMInBytes(overlay.MaxUploadSize); err == nil {
		c.MaxUploadSize = overlay.MaxUploadSize
		c.maxUploadSizeVal = size
	}
	if len(overlay.AllowedExtensions) > 0 {
		c.AllowedExtensions = overlay.AllowedExtensions
	}
	if overlay.VerifyContent {
		c.VerifyContent = true
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "uploads"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MiB"
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = append([]string(nil), DefaultAllowedExtensions...)
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxUploadSize != "" {
		if v := os.Getenv(env.MaxUploadSize); v != "" {
			c.MaxUploadSize = v
		}
	}
	if env.AllowedExtensions != "" {
		if v := os.Getenv(env.AllowedExtensions); v != "" {
			c.AllowedExtensions = strings.Split(v, ",")
		}
	}
	if env.VerifyContent != "" {
		if v := os.Getenv(env.VerifyContent); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.VerifyContent = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.RAMInBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	for i, ext := range c.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return fmt.Errorf("allowed_extensions[%d] empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.AllowedExtensions[i] = ext
	}

	return nil
}
