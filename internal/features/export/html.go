package export

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"go-archive/internal/features/report"
)

// writeHTMLBody renders the document's layout blocks as HTML. Reports
// with no layout get a single implicit data table.
func writeHTMLBody(b *strings.Builder, doc *Document) {
	b.WriteString("<h1>" + html.EscapeString(doc.Title) + "</h1>\n")
	if doc.Description != "" {
		b.WriteString("<p class=\"description\">" + html.EscapeString(doc.Description) + "</p>\n")
	}
	b.WriteString("<p class=\"meta\">" + html.EscapeString(doc.SourceLabel) +
		" &middot; generated " + html.EscapeString(doc.GeneratedAt) + "</p>\n")

	layout := doc.Layout
	if len(layout) == 0 {
		layout = []report.LayoutBlock{{Type: report.BlockDataTable}}
	}

	for _, block := range layout {
		switch block.Type {
		case report.BlockHeader:
			b.WriteString("<h2>" + html.EscapeString(block.Title) + "</h2>\n")
		case report.BlockNarrative:
			if block.Title != "" {
				b.WriteString("<h3>" + html.EscapeString(block.Title) + "</h3>\n")
			}
			b.WriteString("<p>" + html.EscapeString(block.Body) + "</p>\n")
		case report.BlockSeparator:
			b.WriteString("<hr/>\n")
		case report.BlockImage:
			b.WriteString("<img src=\"" + html.EscapeString(block.ImageURL) + "\" alt=\"" +
				html.EscapeString(block.Title) + "\"/>\n")
		case report.BlockDataTable:
			writeDataTable(b, doc, block)
		case report.BlockSummary:
			writeSummary(b, doc, block)
		case report.BlockChart:
			// No graphics engine in document output; charts degrade to
			// their underlying grouped values.
			writeChartTable(b, doc, block)
		}
	}
}

func writeDataTable(b *strings.Builder, doc *Document, block report.LayoutBlock) {
	cols := doc.Columns
	if len(block.Columns) > 0 {
		cols = cols[:0:0]
		for _, key := range block.Columns {
			for _, c := range doc.Columns {
				if c.Key == key {
					cols = append(cols, c)
					break
				}
			}
		}
	}
	if block.Title != "" {
		b.WriteString("<h3>" + html.EscapeString(block.Title) + "</h3>\n")
	}

	b.WriteString("<table>\n<thead><tr>")
	for _, c := range cols {
		b.WriteString("<th>" + html.EscapeString(c.Label) + "</th>")
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, rec := range doc.Rows {
		b.WriteString("<tr>")
		for _, c := range cols {
			b.WriteString("<td>" + html.EscapeString(doc.Cell(rec, c)) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

func writeSummary(b *strings.Builder, doc *Document, block report.LayoutBlock) {
	title := block.Title
	if title == "" {
		title = "Summary"
	}
	b.WriteString("<h3>" + html.EscapeString(title) + "</h3>\n")

	var value string
	switch block.Metric {
	case "count":
		value = strconv.Itoa(len(doc.Rows))
	case "sum":
		value = strconv.FormatFloat(metricOver(doc.Rows, block.MetricColumn, false), 'f', 2, 64)
	case "avg":
		value = strconv.FormatFloat(metricOver(doc.Rows, block.MetricColumn, true), 'f', 2, 64)
	}
	b.WriteString("<p class=\"summary-value\">" + html.EscapeString(value) + "</p>\n")
}

func writeChartTable(b *strings.Builder, doc *Document, block report.LayoutBlock) {
	title := block.Title
	if title == "" {
		title = "Breakdown by " + FormatEnumValue(block.GroupBy)
	}
	b.WriteString("<h3>" + html.EscapeString(title) + "</h3>\n")

	counts := make(map[string]int)
	for _, rec := range doc.Rows {
		key := toText(rec[block.GroupBy])
		if key == "" {
			key = "(none)"
		}
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("<table>\n<thead><tr><th>" + html.EscapeString(FormatEnumValue(block.GroupBy)) +
		"</th><th>Count</th></tr></thead>\n<tbody>\n")
	for _, k := range keys {
		b.WriteString("<tr><td>" + html.EscapeString(FormatEnumValue(k)) + "</td><td>" +
			strconv.Itoa(counts[k]) + "</td></tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

func metricOver(rows []map[string]any, column string, average bool) float64 {
	var sum float64
	var n int
	for _, rec := range rows {
		if f, ok := asFloat(rec[column]); ok {
			sum += f
			n++
		}
	}
	if average {
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
	return sum
}

const documentCSS = `body { font-family: Georgia, "Times New Roman", serif; margin: 2em; color: #222; }
h1 { font-size: 1.6em; border-bottom: 2px solid #444; padding-bottom: 0.3em; }
h2 { font-size: 1.3em; margin-top: 1.5em; }
h3 { font-size: 1.1em; }
p.meta { color: #666; font-size: 0.85em; }
p.summary-value { font-size: 1.4em; font-weight: bold; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; font-size: 0.85em; }
th { background: #eee; }
hr { border: none; border-top: 1px solid #999; margin: 1.5em 0; }`

// HTMLPage renders the document as a standalone web page, used by the
// public share view.
func HTMLPage(doc *Document) string {
	return htmlPage(doc, "", false)
}

func htmlPage(doc *Document, extraHead string, autoPrint bool) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n")
	b.WriteString("<title>" + html.EscapeString(doc.Title) + "</title>\n")
	if extraHead != "" {
		b.WriteString(extraHead + "\n")
	}
	fmt.Fprintf(&b, "<style>\n%s\n</style>\n", documentCSS)
	b.WriteString("</head>\n<body>\n")
	writeHTMLBody(&b, doc)
	if autoPrint {
		b.WriteString("<script>window.addEventListener('load', function(){ window.print(); });</script>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
