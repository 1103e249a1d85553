package export

import (
	"io"

	"go-archive/internal/common/apperr"
)

// Renderer writes a resolved document in one output format.
type Renderer interface {
	Format() Format
	ContentType() string
	Extension() string
	Render(w io.Writer, doc *Document) error
}

// RowSource feeds rows to a streaming renderer one at a time.
type RowSource func(fn func(row map[string]any) error) error

// StreamRenderer is implemented by tabular formats that write rows as
// they arrive from the cursor instead of from a materialized document.
type StreamRenderer interface {
	RenderStream(w io.Writer, doc *Document, rows RowSource) error
}

// RendererRegistry holds the supported output formats.
type RendererRegistry struct {
	renderers map[Format]Renderer
}

func NewRendererRegistry() *RendererRegistry {
	reg := &RendererRegistry{renderers: make(map[Format]Renderer)}
	for _, r := range []Renderer{
		NewCSVRenderer(),
		NewXLSXRenderer(),
		NewPDFRenderer(),
		NewDOCXRenderer(),
	} {
		reg.renderers[r.Format()] = r
	}
	return reg
}

func (r *RendererRegistry) Get(format Format) (Renderer, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, &apperr.UnsupportedFormatError{Format: string(format)}
	}
	return renderer, nil
}

func (r *RendererRegistry) Formats() []Format {
	out := make([]Format, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	return out
}
