package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders an aligned text table. Widths are measured in terminal
// cells, so names such as "Ramaḍān" line up.
type Table struct {
	headers []string
	rows    [][]string
	// rowStyles maps a 0-based row index to the function that styles it.
	rowStyles map[int]func(string) string
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		rowStyles: make(map[int]func(string) string),
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// SetHighlightRow renders row idx with Accent. A negative index is ignored.
func (t *Table) SetHighlightRow(idx int) {
	t.SetRowStyle(idx, Accent)
}

// SetRowStyle renders row idx with style. A later call for the same row wins.
func (t *Table) SetRowStyle(idx int, style func(string) string) {
	if idx < 0 || style == nil {
		return
	}
	t.rowStyles[idx] = style
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if style, ok := t.rowStyles[i]; ok {
			line = style(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	return sb.String()
}

// formatRow pads each cell to its column width and trims trailing space.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = padRight(cell, w)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
