package cli

import (
	"strings"

	"github.com/jmylchreest/huewheel/internal/colour"
)

// Table is a plain text table with dynamic column widths. Widths are
// measured in visible runes so cells may carry ANSI colour escapes.
type Table struct {
	headers    []string
	rows       [][]string
	padding    int
	rightAlign map[int]bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:    headers,
		padding:    2,
		rightAlign: make(map[int]bool),
	}
}

// AlignRight right-aligns the column at colIndex, for numbers.
func (t *Table) AlignRight(colIndex int) {
	t.rightAlign[colIndex] = true
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = colour.VisibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := colour.VisibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	sep := strings.Repeat(" ", t.padding)
	var b strings.Builder

	b.WriteString(t.line(t.headers, widths, sep))
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(rule, sep))
	b.WriteString("\n")

	for _, row := range t.rows {
		b.WriteString(t.line(row, widths, sep))
	}
	return b.String()
}

func (t *Table) line(cells []string, widths []int, sep string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if t.rightAlign[i] {
			parts[i] = padLeft(cell, widths[i])
		} else {
			parts[i] = padRight(cell, widths[i])
		}
	}
	// Trailing padding on the last column is noise.
	return strings.TrimRight(strings.Join(parts, sep), " ") + "\n"
}

// padRight pads s with spaces on the right to the visible width.
func padRight(s string, width int) string {
	if n := colour.VisibleWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft pads s with spaces on the left to the visible width.
func padLeft(s string, width int) string {
	if n := colour.VisibleWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
