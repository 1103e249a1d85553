package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-archive/internal/common/apperr"
	"go-archive/internal/features/catalog"
	"go-archive/internal/features/record"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fakeRecordRepo serves records from a slice, honouring limit and skip
// so pagination behaves like the real store.
type fakeRecordRepo struct {
	records []record.ArchivalRecord
}

func (f *fakeRecordRepo) matching(source string) []record.ArchivalRecord {
	var out []record.ArchivalRecord
	for _, r := range f.records {
		if r.Source == source {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeRecordRepo) List(ctx context.Context, source string, filter bson.M, sort bson.D, limit, skip int64) ([]record.ArchivalRecord, error) {
	out := f.matching(source)
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRecordRepo) Count(ctx context.Context, source string, filter bson.M) (int64, error) {
	return int64(len(f.matching(source))), nil
}

func (f *fakeRecordRepo) Stream(ctx context.Context, source string, filter bson.M, sort bson.D) (*mongo.Cursor, error) {
	matched := f.matching(source)
	docs := make([]interface{}, len(matched))
	for i := range matched {
		docs[i] = matched[i]
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (f *fakeRecordRepo) Insert(ctx context.Context, rec *record.ArchivalRecord) error {
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeRecordRepo) BulkInsert(ctx context.Context, recs []record.ArchivalRecord) (int64, error) {
	f.records = append(f.records, recs...)
	return int64(len(recs)), nil
}

func accessionEngine(n int) *queryEngine {
	repo := &fakeRecordRepo{}
	for i := 1; i <= n; i++ {
		repo.records = append(repo.records, record.ArchivalRecord{
			ID:     primitive.NewObjectID(),
			Source: "accession",
			Data: map[string]any{
				"identifier": fmt.Sprintf("ACC-%03d", i),
				"title":      fmt.Sprintf("Donation batch %d", i),
			},
		})
	}
	return &queryEngine{
		registry: catalog.NewRegistry(),
		records:  repo,
		logger:   zap.NewNop(),
	}
}

func accessionDefinition() *ReportDefinition {
	return &ReportDefinition{
		Name:    "Accessions",
		Source:  "accession",
		Columns: []string{"identifier", "title"},
	}
}

func TestExecutePaginationProperties(t *testing.T) {
	e := accessionEngine(60)
	def := accessionDefinition()
	ctx := context.Background()

	page1, err := e.Execute(ctx, def, 1, 25)
	if err != nil {
		t.Fatalf("Execute(page 1) error = %v", err)
	}
	if len(page1.Results) != 25 {
		t.Errorf("page 1 has %d rows, want 25", len(page1.Results))
	}
	if page1.Total != 60 || page1.Pages != 3 {
		t.Errorf("total = %d, pages = %d, want 60 and 3", page1.Total, page1.Pages)
	}

	seen := len(page1.Results)
	for p := int64(2); p <= page1.Pages; p++ {
		res, err := e.Execute(ctx, def, p, 25)
		if err != nil {
			t.Fatalf("Execute(page %d) error = %v", p, err)
		}
		if len(res.Results) > 25 {
			t.Errorf("page %d has %d rows, want at most 25", p, len(res.Results))
		}
		seen += len(res.Results)
	}
	if seen != 60 {
		t.Errorf("rows across all pages = %d, want 60", seen)
	}

	beyond, err := e.Execute(ctx, def, 99, 25)
	if err != nil {
		t.Fatalf("Execute(page 99) error = %v", err)
	}
	if len(beyond.Results) != 0 {
		t.Errorf("page past the end has %d rows, want 0", len(beyond.Results))
	}
	if beyond.Total != 60 || beyond.Pages != 3 {
		t.Errorf("page past the end: total = %d, pages = %d, want 60 and 3", beyond.Total, beyond.Pages)
	}
}

func TestExecuteOrderIsDeterministic(t *testing.T) {
	e := accessionEngine(30)
	def := accessionDefinition()
	ctx := context.Background()

	first, err := e.Execute(ctx, def, 1, 30)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	again, err := e.Execute(ctx, def, 1, 30)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for i := range first.Results {
		if first.Results[i]["identifier"] != again.Results[i]["identifier"] {
			t.Fatalf("row %d changed between identical runs: %v vs %v",
				i, first.Results[i]["identifier"], again.Results[i]["identifier"])
		}
	}
}

func TestExecuteRejectsNonPositivePageSize(t *testing.T) {
	e := accessionEngine(3)
	def := accessionDefinition()

	for _, limit := range []int64{0, -1, -25} {
		_, err := e.Execute(context.Background(), def, 1, limit)
		var validation *apperr.ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("Execute(limit=%d) error = %v, want ValidationError", limit, err)
			continue
		}
		if validation.Field != "page_size" {
			t.Errorf("Execute(limit=%d) flagged field %q, want page_size", limit, validation.Field)
		}
	}
}

func TestResolvePageSize(t *testing.T) {
	def := &ReportDefinition{PageSize: 40}
	if got := resolvePageSize(0, def); got != 40 {
		t.Errorf("unset limit with definition page size = %d, want 40", got)
	}
	if got := resolvePageSize(0, &ReportDefinition{}); got != DefaultPageSize {
		t.Errorf("unset limit without definition page size = %d, want %d", got, DefaultPageSize)
	}
	if got := resolvePageSize(10, def); got != 10 {
		t.Errorf("explicit limit = %d, want 10", got)
	}
	// explicit non-positive values pass through for the engine to reject
	if got := resolvePageSize(-5, def); got != -5 {
		t.Errorf("negative limit = %d, want -5", got)
	}
}
