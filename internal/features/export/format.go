package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-archive/internal/features/catalog"
)

// FormatValue renders a raw record value as display text for its column
// type. Unknown or nil values come back empty, never "nil".
func FormatValue(v any, t catalog.ColumnType) string {
	if v == nil {
		return ""
	}

	switch t {
	case catalog.TypeBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	case catalog.TypeDate:
		if ts, ok := asTime(v); ok {
			return ts.Format("2006-01-02")
		}
	case catalog.TypeDatetime:
		if ts, ok := asTime(v); ok {
			return ts.Format("2006-01-02 15:04")
		}
	case catalog.TypeEnum, catalog.TypeStatus, catalog.TypeTerm:
		return FormatEnumValue(toText(v))
	case catalog.TypeCurrency:
		if f, ok := asFloat(v); ok {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
	case catalog.TypeFloat:
		if f, ok := asFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return toText(v)
}

// FormatEnumValue turns a snake_case token into a display label,
// "pending_review" becoming "Pending Review".
func FormatEnumValue(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Truncate caps s at limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Cell applies both type formatting and the document's truncation budget.
func (d *Document) Cell(row map[string]any, col ColumnHeader) string {
	return Truncate(FormatValue(row[col.Key], col.Type), d.TruncateAt)
}
