package analyses_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/JaimeStill/color-lab/internal/analyses"
	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/internal/uploads"
	"github.com/JaimeStill/color-lab/pkg/query"
	"github.com/JaimeStill/color-lab/pkg/storage"
	"github.com/JaimeStill/color-lab/pkg/workers"
)

func TestAnalysis_Reliable(t *testing.T) {
	tests := []struct {
		confidence float64
		reliable   bool
		percent    int
	}{
		{0, false, 0},
		{0.6999, false, 69},
		{0.70, true, 70},
		{0.7001, true, 70},
		{0.29, false, 29},
		{0.9999, true, 99},
		{1, true, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.confidence), func(t *testing.T) {
			a := analyses.Analysis{Confidence: tt.confidence}
			if got := a.Reliable(); got != tt.reliable {
				t.Errorf("Reliable() = %v, want %v", got, tt.reliable)
			}
			if got := a.ConfidencePercent(); got != tt.percent {
				t.Errorf("ConfidencePercent() = %d, want %d", got, tt.percent)
			}
		})
	}
}

func TestAnalysis_MarshalJSON(t *testing.T) {
	a := analyses.Analysis{
		ID:         5,
		UserID:     1,
		Category:   classify.WinterCool,
		Confidence: 0.8567,
		Palette:    classify.PaletteFor(classify.WinterCool),
		AnalyzedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	if body["category"] != "WINTER_COOL" {
		t.Errorf("category = %v, want WINTER_COOL", body["category"])
	}
	if body["category_name"] != classify.WinterCool.DisplayName() {
		t.Errorf("category_name = %v, want %q", body["category_name"], classify.WinterCool.DisplayName())
	}
	if body["reliable"] != true {
		t.Errorf("reliable = %v, want true", body["reliable"])
	}
	if body["confidence_percent"] != float64(85) {
		t.Errorf("confidence_percent = %v, want 85", body["confidence_percent"])
	}
	if _, ok := body["image_width"]; ok {
		t.Error("image_width present for nil dimension")
	}
	palette, ok := body["palette"].(map[string]any)
	if !ok {
		t.Fatalf("palette = %T, want object", body["palette"])
	}
	for _, key := range []string{"primary", "secondary", "accent"} {
		if _, ok := palette[key]; !ok {
			t.Errorf("palette missing %q", key)
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty file", uploads.ErrEmptyFile, http.StatusBadRequest},
		{"size", &uploads.SizeExceededError{Actual: 2, Max: 1}, http.StatusRequestEntityTooLarge},
		{"extension", &uploads.DisallowedExtensionError{Ext: ".exe"}, http.StatusBadRequest},
		{"content", &uploads.ContentMismatchError{Ext: ".png"}, http.StatusBadRequest},
		{"traversal", fmt.Errorf("store upload: %w", storage.ErrPathTraversal), http.StatusBadRequest},
		{"invalid query", analyses.ErrInvalidQuery, http.StatusBadRequest},
		{"identity", analyses.ErrIdentityRequired, http.StatusUnauthorized},
		{"forbidden", analyses.ErrForbidden, http.StatusForbidden},
		{"not found", analyses.ErrNotFound, http.StatusNotFound},
		{"duplicate", analyses.ErrDuplicate, http.StatusConflict},
		{"saturated", fmt.Errorf("schedule: %w", workers.ErrSaturated), http.StatusServiceUnavailable},
		{"closed", workers.ErrClosed, http.StatusServiceUnavailable},
		{"engine", fmt.Errorf("%w: boom", analyses.ErrEngine), http.StatusInternalServerError},
		{"storage missing", storage.ErrNotFound, http.StatusInternalServerError},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyses.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, f analyses.Filters)
	}{
		{
			name:  "empty",
			query: "",
			check: func(t *testing.T, f analyses.Filters) {
				if f.Category != nil || f.MinConfidence != nil || f.From != nil || f.To != nil {
					t.Errorf("filters = %+v, want all nil", f)
				}
			},
		},
		{
			name:  "all set",
			query: "category=spring_warm&min_confidence=0.8&from=2025-01-01&to=2025-02-01T00:00:00Z",
			check: func(t *testing.T, f analyses.Filters) {
				if f.Category == nil || *f.Category != classify.SpringWarm {
					t.Errorf("Category = %v, want SPRING_WARM", f.Category)
				}
				if f.MinConfidence == nil || *f.MinConfidence != 0.8 {
					t.Errorf("MinConfidence = %v, want 0.8", f.MinConfidence)
				}
				if f.From == nil || !f.From.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
					t.Errorf("From = %v", f.From)
				}
				if f.To == nil || !f.To.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
					t.Errorf("To = %v", f.To)
				}
			},
		},
		{name: "unknown category", query: "category=purple", wantErr: true},
		{name: "confidence not a number", query: "min_confidence=high", wantErr: true},
		{name: "confidence above one", query: "min_confidence=1.5", wantErr: true},
		{name: "bad date", query: "from=01/02/2025", wantErr: true},
		{name: "reversed range", query: "from=2025-02-01&to=2025-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			f, err := analyses.FiltersFromQuery(values)

			if tt.wantErr {
				if !errors.Is(err, analyses.ErrInvalidQuery) {
					t.Fatalf("FiltersFromQuery() error = %v, want ErrInvalidQuery", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FiltersFromQuery() failed: %v", err)
			}
			tt.check(t, f)
		})
	}
}

func TestFilters_Apply(t *testing.T) {
	category := classify.Neutral
	minConfidence := 0.9
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	projection := query.NewProjectionMap("public", "analyses", "a").
		Project("category", "Category").
		Project("confidence", "Confidence").
		Project("analyzed_at", "AnalyzedAt")

	qb := query.NewBuilder(projection)
	analyses.Filters{Category: &category, MinConfidence: &minConfidence, From: &from}.Apply(qb)

	sql, args := qb.BuildCount()
	want := "SELECT COUNT(*) FROM public.analyses a WHERE a.category = $1 AND a.confidence >= $2 AND a.analyzed_at >= $3"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}
	if len(args) != 3 || args[0] != "NEUTRAL" || args[1] != 0.9 || args[2] != from {
		t.Errorf("args = %v", args)
	}
}

func TestHeaderResolver(t *testing.T) {
	cfg := &analyses.IdentityConfig{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	resolver := analyses.NewHeaderResolver(cfg)

	tests := []struct {
		name    string
		id      string
		email   string
		want    analyses.Identity
		wantErr bool
	}{
		{"valid", "7", "u@example.com", analyses.Identity{ID: 7, Email: "u@example.com"}, false},
		{"trimmed", " 8 ", "", analyses.Identity{ID: 8}, false},
		{"missing", "", "u@example.com", analyses.Identity{}, true},
		{"not a number", "abc", "", analyses.Identity{}, true},
		{"zero", "0", "", analyses.Identity{}, true},
		{"negative", "-3", "", analyses.Identity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.id != "" {
				req.Header.Set("X-User-ID", tt.id)
			}
			if tt.email != "" {
				req.Header.Set("X-User-Email", tt.email)
			}

			got, err := resolver.Resolve(req)
			if tt.wantErr {
				if !errors.Is(err, analyses.ErrIdentityRequired) {
					t.Fatalf("Resolve() error = %v, want ErrIdentityRequired", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIdentityConfig(t *testing.T) {
	t.Setenv("TEST_USER_HEADER", "X-Forwarded-User")

	cfg := &analyses.IdentityConfig{}
	if err := cfg.Finalize(&analyses.IdentityEnv{UserIDHeader: "TEST_USER_HEADER"}); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if cfg.UserIDHeader != "X-Forwarded-User" {
		t.Errorf("UserIDHeader = %q, want X-Forwarded-User", cfg.UserIDHeader)
	}
	if cfg.EmailHeader != "X-User-Email" {
		t.Errorf("EmailHeader = %q, want X-User-Email", cfg.EmailHeader)
	}

	same := &analyses.IdentityConfig{UserIDHeader: "X-A", EmailHeader: "X-A"}
	if err := same.Finalize(nil); err == nil {
		t.Error("Finalize() accepted identical headers")
	}

	base := &analyses.IdentityConfig{UserIDHeader: "X-A", EmailHeader: "X-B"}
	base.Merge(&analyses.IdentityConfig{EmailHeader: "X-C"})
	if base.UserIDHeader != "X-A" || base.EmailHeader != "X-C" {
		t.Errorf("Merge() = %+v", base)
	}
}
