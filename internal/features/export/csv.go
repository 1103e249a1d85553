package export

import (
	"encoding/csv"
	"io"
)

type csvRenderer struct{}

func NewCSVRenderer() Renderer {
	return &csvRenderer{}
}

func (r *csvRenderer) Format() Format      { return FormatCSV }
func (r *csvRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (r *csvRenderer) Extension() string   { return "csv" }

func (r *csvRenderer) Render(w io.Writer, doc *Document) error {
	return r.RenderStream(w, doc, doc.rowSource())
}

// RenderStream writes each row as it arrives so memory use stays flat
// no matter how large the result set is.
func (r *csvRenderer) RenderStream(w io.Writer, doc *Document, rows RowSource) error {
	// UTF-8 BOM so Excel opens the file with the right encoding
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(doc.Columns))
	for i, col := range doc.Columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(doc.Columns))
	err := rows(func(rec map[string]any) error {
		for i, col := range doc.Columns {
			row[i] = doc.Cell(rec, col)
		}
		return cw.Write(row)
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
