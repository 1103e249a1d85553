package export

import (
	"go-archive/internal/features/catalog"
	"go-archive/internal/features/report"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Text budgets applied to long values so tabular output stays readable.
// Shared documents get a little more room.
const (
	TruncateDefault = 100
	TruncateShared  = 150
)

// ColumnHeader pairs a selected column key with its catalog metadata.
type ColumnHeader struct {
	Key   string
	Label string
	Type  catalog.ColumnType
}

// Document is a resolved report ready for rendering. Page-oriented
// formats carry their rows here; tabular formats leave Rows empty and
// pull from the cursor instead.
type Document struct {
	Title       string
	Description string
	SourceLabel string
	GeneratedAt string
	GeneratedBy string
	Columns     []ColumnHeader
	Rows        []map[string]any
	Layout      []report.LayoutBlock
	// TruncateAt caps cell text length; zero means no truncation.
	TruncateAt int
}

// rowSource feeds the materialized rows, for render paths that already
// hold the full document.
func (d *Document) rowSource() RowSource {
	return func(fn func(row map[string]any) error) error {
		for _, row := range d.Rows {
			if err := fn(row); err != nil {
				return err
			}
		}
		return nil
	}
}
