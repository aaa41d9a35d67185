package query_test

import (
	"testing"

	"github.com/JaimeStill/color-lab/pkg/query"
)

func TestNewProjectionMap(t *testing.T) {
	pm := query.NewProjectionMap("public", "analyses", "a")

	if pm.Alias() != "a" {
		t.Errorf("Alias() = %q, want %q", pm.Alias(), "a")
	}

	if pm.Table() != "public.analyses a" {
		t.Errorf("Table() = %q, want %q", pm.Table(), "public.analyses a")
	}
}

func TestProjectionMap_Project(t *testing.T) {
	pm := query.NewProjectionMap("public", "analyses", "a").
		Project("id", "id").
		Project("stored_file_name", "storedFileName").
		Project("analyzed_at", "analyzedAt")

	tests := []struct {
		viewName string
		wantCol  string
	}{
		{"id", "a.id"},
		{"storedFileName", "a.stored_file_name"},
		{"analyzedAt", "a.analyzed_at"},
	}

	for _, tt := range tests {
		t.Run(tt.viewName, func(t *testing.T) {
			col := pm.Column(tt.viewName)
			if col != tt.wantCol {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, col, tt.wantCol)
			}
		})
	}
}

func TestProjectionMap_Column_UnknownReturnsInput(t *testing.T) {
	pm := query.NewProjectionMap("public", "analyses", "a").
		Project("id", "id")

	col := pm.Column("Unknown")
	if col != "Unknown" {
		t.Errorf("Column(%q) = %q, want %q", "Unknown", col, "Unknown")
	}
}

func TestProjectionMap_Columns(t *testing.T) {
	pm := query.NewProjectionMap("public", "analyses", "a").
		Project("id", "id").
		Project("stored_file_name", "storedFileName")

	cols := pm.Columns()
	want := "a.id, a.stored_file_name"

	if cols != want {
		t.Errorf("Columns() = %q, want %q", cols, want)
	}
}

func TestProjectionMap_ColumnList(t *testing.T) {
	pm := query.NewProjectionMap("public", "analyses", "a").
		Project("id", "id").
		Project("stored_file_name", "storedFileName")

	list := pm.ColumnList()
	if len(list) != 2 {
		t.Fatalf("len(ColumnList()) = %d, want 2", len(list))
	}

	if list[0] != "a.id" {
		t.Errorf("ColumnList()[0] = %q, want %q", list[0], "a.id")
	}

	if list[1] != "a.stored_file_name" {
		t.Errorf("ColumnList()[1] = %q, want %q", list[1], "a.stored_file_name")
	}
}

func TestProjectionMap_Has(t *testing.T) {
	pm := query.NewProjectionMap("public", "analyses", "a").
		Project("id", "id")

	if !pm.Has("id") {
		t.Error("Has(\"id\") = false, want true")
	}
	if pm.Has("a.id") {
		t.Error("Has(\"a.id\") = true, want false")
	}
}
