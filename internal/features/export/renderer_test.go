package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go-archive/internal/common/apperr"
	"go-archive/internal/features/catalog"
)

func sampleDocument() *Document {
	return &Document{
		Title:       "Condition Survey",
		SourceLabel: "Condition Reports",
		GeneratedAt: "2024-05-01 09:00",
		GeneratedBy: "archivist",
		TruncateAt:  TruncateDefault,
		Columns: []ColumnHeader{
			{Key: "identifier", Label: "Identifier", Type: catalog.TypeString},
			{Key: "overall_rating", Label: "Overall Rating", Type: catalog.TypeEnum},
			{Key: "assessed", Label: "Assessed", Type: catalog.TypeBoolean},
		},
		Rows: []map[string]any{
			{"identifier": "CR-001", "overall_rating": "good", "assessed": true},
			{"identifier": "CR-002", "overall_rating": "needs_attention", "assessed": false},
		},
	}
}

func TestCSVRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVRenderer().Render(&buf, sampleDocument()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\xEF\xBB\xBF") {
		t.Error("output missing UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\xEF\xBB\xBF")), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Identifier,Overall Rating,Assessed" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "CR-001,Good,Yes" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "CR-002,Needs Attention,No" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestCSVRendererStreamsRows(t *testing.T) {
	doc := sampleDocument()
	rows := doc.Rows
	doc.Rows = nil

	delivered := 0
	src := RowSource(func(fn func(row map[string]any) error) error {
		for _, r := range rows {
			delivered++
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil
	})

	sr, ok := NewCSVRenderer().(StreamRenderer)
	if !ok {
		t.Fatal("csv renderer cannot stream rows")
	}

	var streamed bytes.Buffer
	if err := sr.RenderStream(&streamed, doc, src); err != nil {
		t.Fatalf("RenderStream() error = %v", err)
	}
	if delivered != len(rows) {
		t.Errorf("source delivered %d rows, want %d", delivered, len(rows))
	}

	var materialized bytes.Buffer
	if err := NewCSVRenderer().Render(&materialized, sampleDocument()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if streamed.String() != materialized.String() {
		t.Errorf("streamed output differs from materialized output:\n%q\n%q",
			streamed.String(), materialized.String())
	}
}

func TestTabularRenderersStream(t *testing.T) {
	reg := NewRendererRegistry()
	for _, f := range []Format{FormatCSV, FormatXLSX} {
		r, err := reg.Get(f)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", f, err)
		}
		if _, ok := r.(StreamRenderer); !ok {
			t.Errorf("%s renderer cannot stream rows", f)
		}
	}
}

func TestXLSXRendererStreamsRows(t *testing.T) {
	doc := sampleDocument()
	rows := doc.Rows
	doc.Rows = nil

	sr := NewXLSXRenderer().(StreamRenderer)
	var buf bytes.Buffer
	err := sr.RenderStream(&buf, doc, func(fn func(row map[string]any) error) error {
		for _, r := range rows {
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RenderStream() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("streamed workbook is empty")
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("output is not a zip container")
	}
}

func TestRendererRegistry(t *testing.T) {
	reg := NewRendererRegistry()

	for _, f := range []Format{FormatCSV, FormatXLSX, FormatPDF, FormatDOCX} {
		r, err := reg.Get(f)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", f, err)
		}
		if r.Format() != f {
			t.Errorf("Get(%s) returned renderer for %s", f, r.Format())
		}
	}

	_, err := reg.Get("odt")
	var unsupported *apperr.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Get(odt) error = %v, want UnsupportedFormatError", err)
	}
	if unsupported.Format != "odt" {
		t.Errorf("Format = %q, want odt", unsupported.Format)
	}
}

func TestHTMLPageEscapesValues(t *testing.T) {
	doc := sampleDocument()
	doc.Rows = append(doc.Rows, map[string]any{
		"identifier":     `<script>alert("x")</script>`,
		"overall_rating": "good",
		"assessed":       true,
	})

	page := HTMLPage(doc)
	if strings.Contains(page, `<script>alert`) {
		t.Error("row value rendered without escaping")
	}
	if !strings.Contains(page, "Condition Survey") {
		t.Error("page missing report title")
	}
	if !strings.Contains(page, "Overall Rating") {
		t.Error("page missing column header")
	}
}
