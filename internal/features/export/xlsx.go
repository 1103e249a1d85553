package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

type xlsxRenderer struct{}

func NewXLSXRenderer() Renderer {
	return &xlsxRenderer{}
}

func (r *xlsxRenderer) Format() Format { return FormatXLSX }
func (r *xlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *xlsxRenderer) Extension() string { return "xlsx" }

func (r *xlsxRenderer) Render(w io.Writer, doc *Document) error {
	return r.RenderStream(w, doc, doc.rowSource())
}

// RenderStream builds the sheet through excelize's StreamWriter, which
// serializes each row on arrival instead of holding the worksheet in
// memory.
func (r *xlsxRenderer) RenderStream(w io.Writer, doc *Document, rows RowSource) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}
	// column widths must be set before the first row
	if len(doc.Columns) > 0 {
		if err := sw.SetColWidth(1, len(doc.Columns), 18); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(doc.Columns))
	for i, col := range doc.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.Label}
	}
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := sw.SetRow(cell, header); err != nil {
		return err
	}

	rowIdx := 2
	vals := make([]interface{}, len(doc.Columns))
	err = rows(func(rec map[string]any) error {
		for i, col := range doc.Columns {
			vals[i] = doc.Cell(rec, col)
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		rowIdx++
		return sw.SetRow(cell, vals)
	})
	if err != nil {
		return err
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
