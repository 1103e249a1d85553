package export

import (
	"io"
)

// docxRenderer emits Word-compatible HTML. Word opens it natively and
// preserves tables and headings without an OOXML dependency.
type docxRenderer struct{}

func NewDOCXRenderer() Renderer {
	return &docxRenderer{}
}

func (r *docxRenderer) Format() Format      { return FormatDOCX }
func (r *docxRenderer) ContentType() string { return "application/msword" }
func (r *docxRenderer) Extension() string   { return "doc" }

func (r *docxRenderer) Render(w io.Writer, doc *Document) error {
	head := `<meta name="ProgId" content="Word.Document"/>
<meta name="Generator" content="Microsoft Word 15"/>
<!--[if gte mso 9]><xml><w:WordDocument><w:View>Print</w:View></w:WordDocument></xml><![endif]-->`
	_, err := io.WriteString(w, htmlPage(doc, head, false))
	return err
}
