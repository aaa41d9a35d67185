package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/color-lab/internal/uploads"
	"github.com/JaimeStill/color-lab/pkg/storage"
	"github.com/JaimeStill/color-lab/pkg/workers"
)

// Domain errors for analysis operations.
var (
	ErrNotFound         = errors.New("analysis not found")
	ErrDuplicate        = errors.New("analysis stored file name already exists")
	ErrForbidden        = errors.New("analysis belongs to another user")
	ErrEngine           = errors.New("analysis engine failed")
	ErrIdentityRequired = errors.New("identity required")
	ErrInvalidFile      = errors.New("invalid file")
	ErrInvalidQuery     = errors.New("invalid query parameter")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, uploads.ErrSizeExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, uploads.ErrValidation),
		errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrInvalidQuery),
		errors.Is(err, storage.ErrPathTraversal),
		errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, ErrIdentityRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, workers.ErrSaturated), errors.Is(err, workers.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
