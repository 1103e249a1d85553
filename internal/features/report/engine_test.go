package report

import (
	"errors"
	"reflect"
	"testing"

	"go-archive/internal/common/apperr"
	"go-archive/internal/features/catalog"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testEngine() *queryEngine {
	return &queryEngine{
		registry: catalog.NewRegistry(),
		logger:   zap.NewNop(),
	}
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name    string
		clauses []FilterClause
		want    bson.M
	}{
		{
			name: "equals",
			clauses: []FilterClause{
				{Column: "title", Operator: catalog.OpEquals, Value: "Minutes"},
			},
			want: bson.M{"data.title": "Minutes"},
		},
		{
			name: "contains escapes regex metacharacters",
			clauses: []FilterClause{
				{Column: "title", Operator: catalog.OpContains, Value: "a.b"},
			},
			want: bson.M{"data.title": bson.M{"$regex": `a\.b`, "$options": "i"}},
		},
		{
			name: "starts with",
			clauses: []FilterClause{
				{Column: "identifier", Operator: catalog.OpStartsWith, Value: "AR-"},
			},
			want: bson.M{"data.identifier": bson.M{"$regex": "^AR-", "$options": "i"}},
		},
		{
			name: "between",
			clauses: []FilterClause{
				{Column: "child_count", Operator: catalog.OpBetween, Value: 1, Value2: 10},
			},
			want: bson.M{"data.child_count": bson.M{"$gte": 1, "$lte": 10}},
		},
		{
			name: "is null matches missing and explicit null",
			clauses: []FilterClause{
				{Column: "repository", Operator: catalog.OpIsNull},
			},
			want: bson.M{"data.repository": nil},
		},
		{
			name: "in",
			clauses: []FilterClause{
				{Column: "publication_status", Operator: catalog.OpIn, Values: []any{"draft", "published"}},
			},
			want: bson.M{"data.publication_status": bson.M{"$in": []any{"draft", "published"}}},
		},
		{
			name: "multiple clauses join with and",
			clauses: []FilterClause{
				{Column: "title", Operator: catalog.OpEquals, Value: "x"},
				{Column: "child_count", Operator: catalog.OpGreaterThan, Value: 2},
			},
			want: bson.M{"$and": []bson.M{
				{"data.title": "x"},
				{"data.child_count": bson.M{"$gt": 2}},
			}},
		},
		{
			name:    "empty",
			clauses: nil,
			want:    bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFilter(tt.clauses)
			if err != nil {
				t.Fatalf("BuildFilter() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildFilter() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuildSortAppendsTiebreak(t *testing.T) {
	reg := catalog.NewRegistry()

	sort := BuildSort([]SortSpec{{Column: "title", Direction: SortDesc}}, "information_object", reg)
	want := bson.D{
		{Key: "data.title", Value: -1},
		{Key: "_id", Value: 1},
	}
	if !reflect.DeepEqual(sort, want) {
		t.Errorf("BuildSort() = %#v, want %#v", sort, want)
	}
}

func TestBuildSortDefaultsToSourceSort(t *testing.T) {
	reg := catalog.NewRegistry()

	sort := BuildSort(nil, "accession", reg)
	want := bson.D{
		{Key: "data.date", Value: 1},
		{Key: "_id", Value: 1},
	}
	if !reflect.DeepEqual(sort, want) {
		t.Errorf("BuildSort() = %#v, want %#v", sort, want)
	}
}

func TestValidate(t *testing.T) {
	engine := testEngine()

	valid := func() *ReportDefinition {
		return &ReportDefinition{
			Name:    "Published records",
			Source:  "information_object",
			Columns: []string{"identifier", "title"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(def *ReportDefinition)
		wantErr bool
	}{
		{"valid definition", func(def *ReportDefinition) {}, false},
		{"missing name", func(def *ReportDefinition) { def.Name = "" }, true},
		{"unknown source", func(def *ReportDefinition) { def.Source = "bogus" }, true},
		{"no columns", func(def *ReportDefinition) { def.Columns = nil }, true},
		{"unknown column", func(def *ReportDefinition) { def.Columns = []string{"nope"} }, true},
		{"filter on unknown column", func(def *ReportDefinition) {
			def.Filters = []FilterClause{{Column: "nope", Operator: catalog.OpEquals, Value: 1}}
		}, true},
		{"operator wrong for type", func(def *ReportDefinition) {
			def.Filters = []FilterClause{{Column: "child_count", Operator: catalog.OpContains, Value: "x"}}
		}, true},
		{"between missing second value", func(def *ReportDefinition) {
			def.Filters = []FilterClause{{Column: "child_count", Operator: catalog.OpBetween, Value: 1}}
		}, true},
		{"in with empty list", func(def *ReportDefinition) {
			def.Filters = []FilterClause{{Column: "publication_status", Operator: catalog.OpIn}}
		}, true},
		{"is null needs no operand", func(def *ReportDefinition) {
			def.Filters = []FilterClause{{Column: "repository", Operator: catalog.OpIsNull}}
		}, false},
		{"sort on unsortable column", func(def *ReportDefinition) {
			def.Sorts = []SortSpec{{Column: "scope_and_content", Direction: SortAsc}}
		}, true},
		{"bad sort direction", func(def *ReportDefinition) {
			def.Sorts = []SortSpec{{Column: "title", Direction: "sideways"}}
		}, true},
		{"chart without group_by", func(def *ReportDefinition) {
			def.Layout = []LayoutBlock{{Type: BlockChart, ChartKind: "bar"}}
		}, true},
		{"unknown block type", func(def *ReportDefinition) {
			def.Layout = []LayoutBlock{{Type: "gallery"}}
		}, true},
		{"summary sum needs column", func(def *ReportDefinition) {
			def.Layout = []LayoutBlock{{Type: BlockSummary, Metric: "sum"}}
		}, true},
		{"valid layout", func(def *ReportDefinition) {
			def.Layout = []LayoutBlock{
				{Type: BlockHeader, Title: "Overview"},
				{Type: BlockSummary, Metric: "count"},
				{Type: BlockChart, ChartKind: "pie", GroupBy: "publication_status"},
				{Type: BlockDataTable, Columns: []string{"title"}},
				{Type: BlockSeparator},
			}
		}, false},
		{"page size above cap", func(def *ReportDefinition) { def.PageSize = MaxPageSize + 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := valid()
			tt.mutate(def)
			err := engine.Validate(def)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var validation *apperr.ValidationError
				var unknown *apperr.UnknownDataSourceError
				if !errors.As(err, &validation) && !errors.As(err, &unknown) {
					t.Errorf("Validate() error type = %T, want ValidationError or UnknownDataSourceError", err)
				}
			}
		})
	}
}
