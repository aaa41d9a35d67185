package storage_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/color-lab/pkg/storage"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &storage.Config{}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.BasePath != "uploads" {
		t.Errorf("BasePath = %q, want %q", cfg.BasePath, "uploads")
	}
	if cfg.MaxUploadSizeBytes() != 10*1024*1024 {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", cfg.MaxUploadSizeBytes(), 10*1024*1024)
	}
	if !slices.Equal(cfg.AllowedExtensions, storage.DefaultAllowedExtensions) {
		t.Errorf("AllowedExtensions = %v, want %v", cfg.AllowedExtensions, storage.DefaultAllowedExtensions)
	}
	if cfg.VerifyContent {
		t.Error("VerifyContent = true, want false")
	}
}

func TestConfig_Finalize_Env(t *testing.T) {
	t.Setenv("TEST_STORAGE_PATH", "/srv/uploads")
	t.Setenv("TEST_STORAGE_MAX", "2MiB")
	t.Setenv("TEST_STORAGE_EXT", "PNG, .webp")
	t.Setenv("TEST_STORAGE_VERIFY", "true")

	cfg := &storage.Config{}
	env := &storage.Env{
		BasePath:          "TEST_STORAGE_PATH",
		MaxUploadSize:     "TEST_STORAGE_MAX",
		AllowedExtensions: "TEST_STORAGE_EXT",
		VerifyContent:     "TEST_STORAGE_VERIFY",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.BasePath != "/srv/uploads" {
		t.Errorf("BasePath = %q", cfg.BasePath)
	}
	if cfg.MaxUploadSizeBytes() != 2*1024*1024 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.MaxUploadSizeBytes())
	}
	if want := []string{".png", ".webp"}; !slices.Equal(cfg.AllowedExtensions, want) {
		t.Errorf("AllowedExtensions = %v, want %v", cfg.AllowedExtensions, want)
	}
	if !cfg.VerifyContent {
		t.Error("VerifyContent = false, want true")
	}
}

func TestConfig_Finalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"bad size", storage.Config{MaxUploadSize: "lots"}},
		{"negative size", storage.Config{MaxUploadSize: "-1"}},
		{"empty extension", storage.Config{AllowedExtensions: []string{".png", " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("Finalize() succeeded, want error")
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &storage.Config{BasePath: "uploads", MaxUploadSize: "10MiB"}
	overlay := &storage.Config{
		BasePath:          "/data",
		MaxUploadSize:     "5MiB",
		AllowedExtensions: []string{".png"},
		VerifyContent:     true,
	}

	base.Merge(overlay)

	if base.BasePath != "/data" {
		t.Errorf("BasePath = %q, want /data", base.BasePath)
	}
	if base.MaxUploadSize != "5MiB" || base.MaxUploadSizeBytes() != 5*1024*1024 {
		t.Errorf("MaxUploadSize = %q (%d)", base.MaxUploadSize, base.MaxUploadSizeBytes())
	}
	if len(base.AllowedExtensions) != 1 || !base.VerifyContent {
		t.Errorf("Merge() = %+v", base)
	}

	base.Merge(&storage.Config{})
	if base.BasePath != "/data" || base.MaxUploadSize != "5MiB" {
		t.Errorf("empty overlay changed base: %+v", base)
	}
}
