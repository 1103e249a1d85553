package export

import (
	"strings"
	"testing"
	"time"

	"go-archive/internal/features/catalog"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		colType catalog.ColumnType
		want    string
	}{
		{"nil is empty", nil, catalog.TypeString, ""},
		{"plain string", "Fonds description", catalog.TypeString, "Fonds description"},
		{"bool true", true, catalog.TypeBoolean, "Yes"},
		{"bool false", false, catalog.TypeBoolean, "No"},
		{"date from time", time.Date(2024, 3, 7, 14, 5, 0, 0, time.UTC), catalog.TypeDate, "2024-03-07"},
		{"date from string", "2024-03-07", catalog.TypeDate, "2024-03-07"},
		{"datetime keeps the clock", time.Date(2024, 3, 7, 14, 5, 0, 0, time.UTC), catalog.TypeDatetime, "2024-03-07 14:05"},
		{"datetime from mysql string", "2024-03-07 14:05:59", catalog.TypeDatetime, "2024-03-07 14:05"},
		{"status label", "pending_review", catalog.TypeStatus, "Pending Review"},
		{"term label", "level_of_description", catalog.TypeTerm, "Level Of Description"},
		{"currency two decimals", 1200.5, catalog.TypeCurrency, "1200.50"},
		{"currency from int", 300, catalog.TypeCurrency, "300.00"},
		{"float minimal precision", 2.25, catalog.TypeFloat, "2.25"},
		{"integer passthrough", 42, catalog.TypeInteger, "42"},
		{"unparseable date falls through", "yesterday", catalog.TypeDate, "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value, tt.colType); got != tt.want {
				t.Errorf("FormatValue(%v, %s) = %q, want %q", tt.value, tt.colType, got, tt.want)
			}
		})
	}
}

func TestFormatEnumValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"published", "Published"},
		{"pending_review", "Pending Review"},
		{"", ""},
		{"a_b_c", "A B C"},
	}

	for _, tt := range tests {
		if got := FormatEnumValue(tt.in); got != tt.want {
			t.Errorf("FormatEnumValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 200)

	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short strings pass through", "hello", TruncateDefault, "hello"},
		{"exactly at the limit", strings.Repeat("x", 100), TruncateDefault, strings.Repeat("x", 100)},
		{"over the limit gains an ellipsis", long, TruncateDefault, strings.Repeat("a", 100) + "..."},
		{"shared budget is wider", long, TruncateShared, strings.Repeat("a", 150) + "..."},
		{"zero limit disables truncation", long, 0, long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	in := strings.Repeat("é", 120)
	got := Truncate(in, TruncateDefault)
	want := strings.Repeat("é", 100) + "..."
	if got != want {
		t.Errorf("Truncate() split a multi-byte rune: %q", got)
	}
}

func TestDocumentCell(t *testing.T) {
	doc := &Document{TruncateAt: 10}
	row := map[string]any{"summary": "a very long condition summary"}
	col := ColumnHeader{Key: "summary", Label: "Summary", Type: catalog.TypeText}

	if got := doc.Cell(row, col); got != "a very lon..." {
		t.Errorf("Cell() = %q", got)
	}
}
