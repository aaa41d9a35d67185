package classify

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidResult indicates an engine produced output outside the contract.
var ErrInvalidResult = errors.New("invalid classification result")

// Result is the output of one classification.
type Result struct {
	Category    Category
	Confidence  float64
	Description string
	Palette     Palette
}

// Validate checks r against the engine contract: a known category,
// confidence within [0, 1], and all three palette tiers present.
func (r Result) Validate() error {
	if !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidResult, r.Category)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0, 1]", ErrInvalidResult, r.Confidence)
	}
	if err := r.Palette.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	return nil
}

// Engine classifies a stored upload.
type Engine interface {
	// Classify inspects the file stored under storedName.
	Classify(ctx context.Context, storedName string) (Result, error)
}
