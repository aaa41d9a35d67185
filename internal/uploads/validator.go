// Package uploads checks client uploads before they reach storage.
package uploads

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/JaimeStill/color-lab/pkg/storage"
	_ "golang.org/x/image/bmp"
)

// File is an upload as received from the client. Size and ContentType are
// client-declared; the size bound also applies to the actual byte length.
type File struct {
	Data        []byte
	Filename    string
	Size        int64
	ContentType string
}

// formats maps allow-listed extensions to the image.DecodeConfig format name.
var formats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".bmp":  "bmp",
}

// Validator enforces upload constraints. It holds no mutable state.
type Validator struct {
	maxSize       int64
	allowed       map[string]struct{}
	verifyContent bool
}

// NewValidator builds a Validator from finalized storage configuration.
func NewValidator(cfg *storage.Config) *Validator {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &Validator{
		maxSize:       cfg.MaxUploadSizeBytes(),
		allowed:       allowed,
		verifyContent: cfg.VerifyContent,
	}
}

// MaxSize returns the configured upload size limit in bytes.
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate checks f in order: non-empty, size bound, name present, extension
// allowed, and, when enabled, content matching the extension. The first
// failing check is returned.
func (v *Validator) Validate(f File) error {
	if len(f.Data) == 0 {
		return ErrEmptyFile
	}

	size := f.Size
	if n := int64(len(f.Data)); n > size {
		size = n
	}
	if size > v.maxSize {
		return &SizeExceededError{Actual: size, Max: v.maxSize}
	}

	if strings.TrimSpace(f.Filename) == "" {
		return ErrMissingName
	}

	ext := storage.Extension(f.Filename)
	if _, ok := v.allowed[ext]; !ok {
		return &DisallowedExtensionError{Ext: ext}
	}

	if v.verifyContent {
		if want, known := formats[ext]; known {
			_, detected, err := image.DecodeConfig(bytes.NewReader(f.Data))
			if err != nil {
				return &ContentMismatchError{Ext: ext}
			}
			if detected != want {
				return &ContentMismatchError{Ext: ext, Detected: detected}
			}
		}
	}

	return nil
}

// Dimensions decodes the image header of data. ok is false when the bytes
// are not a recognized image format.
func Dimensions(data []byte) (width, height int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
