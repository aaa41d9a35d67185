package classify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"unicode/utf16"

	"github.com/JaimeStill/color-lab/pkg/storage"
)

// Placeholder stands in for a real classifier. The category is derived from
// a hash of the stored name, so the same name always maps to the same
// category; confidence is drawn uniformly from the configured range.
type Placeholder struct {
	files  storage.Reader
	min    float64
	max    float64
	rand   func() float64
	logger *slog.Logger
}

// NewPlaceholder creates the placeholder engine. cfg is expected to be finalized.
func NewPlaceholder(files storage.Reader, cfg *Config, logger *slog.Logger) *Placeholder {
	return &Placeholder{
		files:  files,
		min:    cfg.MinConfidence,
		max:    cfg.MaxConfidence,
		rand:   rand.Float64,
		logger: logger.With("system", "classify"),
	}
}

func (p *Placeholder) Classify(ctx context.Context, storedName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !p.files.Exists(ctx, storedName) {
		return Result{}, fmt.Errorf("classify %s: %w", storedName, storage.ErrNotFound)
	}

	category := CategoryFor(storedName)
	confidence := roundConfidence(p.min + p.rand()*(p.max-p.min))

	p.logger.Debug("placeholder classification", "stored_name", storedName, "category", category, "confidence", confidence)

	return Result{
		Category:    category,
		Confidence:  confidence,
		Description: category.Description(),
		Palette:     PaletteFor(category),
	}, nil
}

// CategoryFor maps name onto a category using a 31-multiplier hash over its
// UTF-16 code units.
func CategoryFor(name string) Category {
	var h int32
	for _, u := range utf16.Encode([]rune(name)) {
		h = 31*h + int32(u)
	}

	idx := int(h % int32(len(categories)))
	if idx < 0 {
		idx = -idx
	}
	return categories[idx]
}

func roundConfidence(v float64) float64 {
	return math.Round(v*10000) / 10000
}
