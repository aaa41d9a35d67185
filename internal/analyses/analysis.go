// Package analyses runs uploaded photos through the classification engine and
// keeps the resulting records. Submission validates and stores the upload,
// then schedules classification on a bounded worker pool.
package analyses

import (
	"encoding/json"
	"math"
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
)

// ReliableThreshold is the confidence at or above which a result is reliable.
const ReliableThreshold = 0.70

// Analysis is a persisted classification result. Records are immutable once saved.
type Analysis struct {
	ID               int64             `json:"id"`
	UserID           int64             `json:"user_id"`
	OriginalFileName string            `json:"original_file_name"`
	StoredFileName   string            `json:"stored_file_name"`
	Category         classify.Category `json:"category"`
	Confidence       float64           `json:"confidence"`
	Description      string            `json:"description"`
	Palette          classify.Palette  `json:"palette"`
	ContentType      string            `json:"content_type"`
	SizeBytes        int64             `json:"size_bytes"`
	ImageWidth       *int              `json:"image_width,omitempty"`
	ImageHeight      *int              `json:"image_height,omitempty"`
	AnalyzedAt       time.Time         `json:"analyzed_at"`
}

// Reliable reports whether the confidence reaches ReliableThreshold.
func (a Analysis) Reliable() bool {
	return a.Confidence >= ReliableThreshold
}

// ConfidencePercent returns the confidence as a whole percentage, rounded down.
func (a Analysis) ConfidencePercent() int {
	// confidence carries four decimals; the epsilon absorbs float error at exact percentages
	return int(math.Floor(a.Confidence*100 + 1e-9))
}

// MarshalJSON adds the derived fields to the record's JSON form.
func (a Analysis) MarshalJSON() ([]byte, error) {
	type record Analysis
	return json.Marshal(struct {
		record
		CategoryName      string `json:"category_name"`
		Reliable          bool   `json:"reliable"`
		ConfidencePercent int    `json:"confidence_percent"`
	}{
		record:            record(a),
		CategoryName:      a.Category.DisplayName(),
		Reliable:          a.Reliable(),
		ConfidencePercent: a.ConfidencePercent(),
	})
}

// Upload describes a stored file awaiting classification.
type Upload struct {
	OriginalFileName string
	StoredFileName   string
	ContentType      string
	SizeBytes        int64
	ImageWidth       *int
	ImageHeight      *int
}
