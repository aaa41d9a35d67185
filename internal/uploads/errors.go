package uploads

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every rejection Validate returns.
	ErrValidation = errors.New("invalid upload")

	ErrEmptyFile           = &validationError{msg: "file is empty"}
	ErrMissingName         = &validationError{msg: "file name is required"}
	ErrSizeExceeded        = errors.New("file size exceeded")
	ErrDisallowedExtension = errors.New("file extension not allowed")
	ErrContentMismatch     = errors.New("file content does not match extension")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// SizeExceededError reports an upload larger than the configured maximum.
// Actual is zero when the size of the upload is unknown.
type SizeExceededError struct {
	Actual int64
	Max    int64
}

func (e *SizeExceededError) Error() string {
	if e.Actual <= 0 {
		return fmt.Sprintf("file size exceeds maximum %d", e.Max)
	}
	return fmt.Sprintf("file size %d exceeds maximum %d", e.Actual, e.Max)
}

func (e *SizeExceededError) Is(target error) bool {
	return target == ErrValidation || target == ErrSizeExceeded
}

// DisallowedExtensionError reports an extension outside the allow-list.
// Ext is "" when the name has no extension.
type DisallowedExtensionError struct {
	Ext string
}

func (e *DisallowedExtensionError) Error() string {
	if e.Ext == "" {
		return "file has no extension"
	}
	return fmt.Sprintf("file extension %q not allowed", e.Ext)
}

func (e *DisallowedExtensionError) Is(target error) bool {
	return target == ErrValidation || target == ErrDisallowedExtension
}

// ContentMismatchError reports bytes that do not decode as the image format
// implied by the extension. Detected is "" when no format was recognized.
type ContentMismatchError struct {
	Ext      string
	Detected string
}

func (e *ContentMismatchError) Error() string {
	if e.Detected == "" {
		return fmt.Sprintf("file content is not a recognized image for %q", e.Ext)
	}
	return fmt.Sprintf("file content is %s, not %q", e.Detected, e.Ext)
}

func (e *ContentMismatchError) Is(target error) bool {
	return target == ErrValidation || target == ErrContentMismatch
}
