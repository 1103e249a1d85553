package catalog

import (
	"errors"
	"testing"

	"go-archive/internal/common/apperr"
)

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()

	ds, err := reg.Get("accession")
	if err != nil {
		t.Fatalf("Get(accession) error = %v", err)
	}
	if ds.Label != "Accessions" {
		t.Errorf("Label = %q, want Accessions", ds.Label)
	}

	_, err = reg.Get("nonsense")
	var unknown *apperr.UnknownDataSourceError
	if !errors.As(err, &unknown) {
		t.Fatalf("Get(nonsense) error = %v, want UnknownDataSourceError", err)
	}
	if unknown.Key != "nonsense" {
		t.Errorf("Key = %q, want nonsense", unknown.Key)
	}
}

func TestRegistryListIsSorted(t *testing.T) {
	reg := NewRegistry()
	sources := reg.List()
	if len(sources) < 10 {
		t.Fatalf("expected at least 10 data sources, got %d", len(sources))
	}
	for i := 1; i < len(sources); i++ {
		if sources[i-1].Key >= sources[i].Key {
			t.Errorf("sources not sorted: %q before %q", sources[i-1].Key, sources[i].Key)
		}
	}
}

func TestRegistryColumn(t *testing.T) {
	reg := NewRegistry()

	col, ok := reg.Column("information_object", "title")
	if !ok {
		t.Fatal("expected title column on information_object")
	}
	if !col.Searchable {
		t.Error("title should be searchable")
	}

	if _, ok := reg.Column("information_object", "no_such_column"); ok {
		t.Error("unexpected column match")
	}
	if _, ok := reg.Column("no_such_source", "title"); ok {
		t.Error("unexpected source match")
	}
}

func TestOperatorsForType(t *testing.T) {
	tests := []struct {
		name     string
		colType  ColumnType
		contains Operator
		excludes Operator
	}{
		{"integer gets between", TypeInteger, OpBetween, OpContains},
		{"string gets contains", TypeString, OpContains, OpBetween},
		{"boolean excludes in", TypeBoolean, OpEquals, OpIn},
		{"enum gets in", TypeEnum, OpIn, OpStartsWith},
		{"date gets between", TypeDate, OpBetween, OpContains},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := OperatorsForType(tt.colType)
			if !hasOp(ops, tt.contains) {
				t.Errorf("%s should support %s", tt.colType, tt.contains)
			}
			if hasOp(ops, tt.excludes) {
				t.Errorf("%s should not support %s", tt.colType, tt.excludes)
			}
		})
	}
}

func hasOp(ops []Operator, op Operator) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func TestListColumnsHidesInternal(t *testing.T) {
	svc := NewCatalogService(NewRegistry())

	grouped, err := svc.ListColumns("information_object")
	if err != nil {
		t.Fatalf("ListColumns error = %v", err)
	}
	for group, cols := range grouped {
		for _, c := range cols {
			if c.Hidden {
				t.Errorf("hidden column %q leaked in group %s", c.Key, group)
			}
		}
	}
	if len(grouped[GroupI18n]) == 0 {
		t.Error("expected i18n columns")
	}
}
