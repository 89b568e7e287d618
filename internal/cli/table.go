package cli

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Table formats rows into aligned columns. Widths are measured in runes so
// captions such as "Aqua Dream · Basic" line up.
type Table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int // Maximum width per column index (0 = no limit)
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers:   headers,
		rows:      make([][]string, 0),
		padding:   2,
		maxWidths: make(map[int]int),
	}
}

// SetColumnMaxWidth sets a maximum width for a specific column.
// Text longer than this is wrapped at word boundaries.
func (t *Table) SetColumnMaxWidth(colIndex int, maxWidth int) {
	t.maxWidths[colIndex] = maxWidth
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// WriteTo renders the table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Render())
	return int64(n), err
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	wrappedRows := make([][][]string, len(t.rows))
	for rowIdx, row := range t.rows {
		wrappedRows[rowIdx] = make([][]string, len(row))
		for colIdx, cell := range row {
			if maxWidth := t.maxWidths[colIdx]; maxWidth > 0 {
				wrappedRows[rowIdx][colIdx] = wrapText(cell, maxWidth)
			} else {
				wrappedRows[rowIdx][colIdx] = []string{cell}
			}
		}
	}

	colWidths := make([]int, len(t.headers))
	for i, h := range t.headers {
		colWidths[i] = width(h)
	}
	for _, wrappedRow := range wrappedRows {
		for i, wrappedCell := range wrappedRow {
			for _, line := range wrappedCell {
				colWidths[i] = max(colWidths[i], width(line))
			}
		}
	}

	sep := strings.Repeat(" ", t.padding)
	var result strings.Builder

	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = padRight(c, colWidths[i])
		}
		result.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		result.WriteString("\n")
	}

	writeLine(t.headers)

	rule := make([]string, len(colWidths))
	for i, w := range colWidths {
		rule[i] = strings.Repeat("-", w)
	}
	writeLine(rule)

	for _, wrappedRow := range wrappedRows {
		lines := 1
		for _, wrappedCell := range wrappedRow {
			lines = max(lines, len(wrappedCell))
		}

		for lineIdx := range lines {
			cells := make([]string, len(t.headers))
			for colIdx := range t.headers {
				if lineIdx < len(wrappedRow[colIdx]) {
					cells[colIdx] = wrappedRow[colIdx][lineIdx]
				}
			}
			writeLine(cells)
		}
	}

	return result.String()
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

// padRight pads a string with spaces on the right to reach the desired width.
// If the string is already at least that wide, it is returned unchanged.
func padRight(s string, w int) string {
	if n := width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

// wrapText wraps text to fit within the specified width, breaking at word boundaries.
// Words longer than the width are split.
func wrapText(text string, w int) []string {
	if w <= 0 || width(text) <= w {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range words {
		if width(word) > w {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			runes := []rune(word)
			for len(runes) > w {
				lines = append(lines, string(runes[:w]))
				runes = runes[w:]
			}
			current = string(runes)
			continue
		}

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if width(candidate) <= w {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
