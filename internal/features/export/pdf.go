package export

import (
	"io"
)

// pdfRenderer produces a print-ready HTML page that triggers the
// browser's print dialog. The browser does the PDF conversion, so the
// server stays free of native PDF tooling.
type pdfRenderer struct{}

func NewPDFRenderer() Renderer {
	return &pdfRenderer{}
}

func (r *pdfRenderer) Format() Format      { return FormatPDF }
func (r *pdfRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (r *pdfRenderer) Extension() string   { return "html" }

func (r *pdfRenderer) Render(w io.Writer, doc *Document) error {
	head := `<style media="print">@page { size: A4; margin: 15mm; } body { margin: 0; }</style>`
	_, err := io.WriteString(w, htmlPage(doc, head, true))
	return err
}
