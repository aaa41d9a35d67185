package pagination_test

import (
	"net/url"
	"testing"

	"github.com/JaimeStill/color-lab/pkg/pagination"
)

var testConfig = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		request      pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"valid values unchanged", pagination.PageRequest{Page: 2, PageSize: 25}, 2, 25},
		{"zero page becomes 1", pagination.PageRequest{Page: 0, PageSize: 25}, 1, 25},
		{"negative page size gets default", pagination.PageRequest{Page: 1, PageSize: -10}, 1, 20},
		{"page size exceeding max gets capped", pagination.PageRequest{Page: 1, PageSize: 200}, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.request.Normalize(testConfig)

			if tt.request.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.request.Page, tt.wantPage)
			}
			if tt.request.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.request.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 10}
	if got := req.Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact division", 100, 20, 5},
		{"with remainder", 21, 20, 2},
		{"empty result still has one page", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]int{1}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestNewPageResult_NilDataBecomesEmptySlice(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("Data is nil, want empty slice")
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values, _ := url.ParseQuery("page=3&page_size=500&search=warm&sort=-confidence,analyzed_at")

	req := pagination.PageRequestFromQuery(values, testConfig)

	if req.Page != 3 || req.PageSize != 100 {
		t.Errorf("Page = %d, PageSize = %d", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "warm" {
		t.Errorf("Search = %v", req.Search)
	}
	if len(req.Sort) != 2 || req.Sort[0].Field != "Confidence" || !req.Sort[0].Descending || req.Sort[1].Field != "AnalyzedAt" || req.Sort[1].Descending {
		t.Errorf("Sort = %v", req.Sort)
	}

	empty := pagination.PageRequestFromQuery(url.Values{}, testConfig)
	if empty.Page != 1 || empty.PageSize != 20 || empty.Search != nil || empty.Sort != nil {
		t.Errorf("empty query = %+v", empty)
	}
}

func TestViewName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"analyzed_at", "AnalyzedAt"},
		{"analyzedAt", "AnalyzedAt"},
		{"AnalyzedAt", "AnalyzedAt"},
		{"user_id", "UserId"},
		{"confidence", "Confidence"},
		{"_category_", "Category"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := pagination.ViewName(tt.field); got != tt.want {
				t.Errorf("ViewName(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_PAGINATION_MAX", "75")

	cfg := &pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{MaxPageSize: "TEST_PAGINATION_MAX"}); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 75 {
		t.Errorf("Finalize() = %+v", cfg)
	}

	bad := &pagination.Config{DefaultPageSize: 50, MaxPageSize: 25}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize() succeeded with default > max, want error")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	cfg.Merge(&pagination.Config{MaxPageSize: 50})

	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 50 {
		t.Errorf("Merge() = %+v", cfg)
	}
}
