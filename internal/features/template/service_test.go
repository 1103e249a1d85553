package template

import (
	"reflect"
	"testing"

	"go-archive/internal/features/report"
)

func TestToDefinition(t *testing.T) {
	tmpl := &ReportTemplate{
		Name:        "Condition Survey",
		Description: "Condition reports grouped by overall rating",
		Scope:       ScopeSystem,
		Source:      "condition_report",
		Sections: []Section{
			{Type: report.BlockDataTable, Columns: []string{"information_object_id", "overall_rating"}, IsVisible: true, SortOrder: 3},
			{Type: report.BlockHeader, Title: "Preservation Condition Survey", IsVisible: true, SortOrder: 1},
			{Type: report.BlockChart, ChartKind: "pie", GroupBy: "overall_rating", IsVisible: true, SortOrder: 2},
			{Type: report.BlockNarrative, Body: "internal notes", IsVisible: false, SortOrder: 4},
		},
	}

	def := tmpl.toDefinition("Q1 Survey")

	if def.Name != "Q1 Survey" {
		t.Errorf("Name = %q, want Q1 Survey", def.Name)
	}
	if def.Source != "condition_report" {
		t.Errorf("Source = %q", def.Source)
	}
	if !reflect.DeepEqual(def.Columns, []string{"information_object_id", "overall_rating"}) {
		t.Errorf("Columns = %v", def.Columns)
	}

	// sections ordered by sort_order, hidden ones dropped
	wantTypes := []report.BlockType{report.BlockHeader, report.BlockChart, report.BlockDataTable}
	if len(def.Layout) != len(wantTypes) {
		t.Fatalf("Layout has %d blocks, want %d", len(def.Layout), len(wantTypes))
	}
	for i, want := range wantTypes {
		if def.Layout[i].Type != want {
			t.Errorf("Layout[%d].Type = %s, want %s", i, def.Layout[i].Type, want)
		}
	}

	// the instantiated report must evolve independently of the template
	def.Columns[0] = "changed"
	if tmpl.Sections[0].Columns[0] != "information_object_id" {
		t.Error("definition shares the template's column slice")
	}
}

func TestToDefinitionWithoutDataTable(t *testing.T) {
	tmpl := &ReportTemplate{
		Name:   "Rating Breakdown",
		Source: "condition_report",
		Sections: []Section{
			{Type: report.BlockChart, ChartKind: "bar", GroupBy: "overall_rating", IsVisible: true},
			{Type: report.BlockSummary, Metric: "count", IsVisible: true},
		},
	}

	def := tmpl.toDefinition("")
	if def.Name != "Rating Breakdown" {
		t.Errorf("Name = %q, want the template name", def.Name)
	}
	if !reflect.DeepEqual(def.Columns, []string{"overall_rating"}) {
		t.Errorf("Columns = %v, want the chart's group_by column", def.Columns)
	}
}
