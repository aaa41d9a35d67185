package analyses

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/pkg/query"
)

// Filters contains optional criteria for filtering analysis queries.
type Filters struct {
	Category      *classify.Category
	MinConfidence *float64
	From          *time.Time
	To            *time.Time
}

// FiltersFromQuery extracts analysis filters from URL query parameters.
// Supported parameters: category, min_confidence, from, to (RFC 3339 or YYYY-MM-DD).
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if v := values.Get("category"); v != "" {
		c, err := classify.ParseCategory(strings.ToUpper(v))
		if err != nil {
			return f, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		f.Category = &c
	}

	if v := values.Get("min_confidence"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 || n > 1 {
			return f, fmt.Errorf("%w: min_confidence must be a number in [0, 1]", ErrInvalidQuery)
		}
		f.MinConfidence = &n
	}

	from, err := parseTime(values, "from")
	if err != nil {
		return f, err
	}
	f.From = from

	to, err := parseTime(values, "to")
	if err != nil {
		return f, err
	}
	f.To = to

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, fmt.Errorf("%w: to precedes from", ErrInvalidQuery)
	}

	return f, nil
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Category != nil {
		b.WhereEquals("Category", string(*f.Category))
	}
	if f.MinConfidence != nil {
		b.WhereGreaterOrEqual("Confidence", *f.MinConfidence)
	}
	if f.From != nil {
		b.WhereGreaterOrEqual("AnalyzedAt", *f.From)
	}
	if f.To != nil {
		b.WhereLessOrEqual("AnalyzedAt", *f.To)
	}
	return b
}

func parseTime(values url.Values, key string) (*time.Time, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be RFC 3339 or YYYY-MM-DD", ErrInvalidQuery, key)
}
