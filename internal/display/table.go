package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// maxCellWidth caps a column; longer cells are cut with an ellipsis.
const maxCellWidth = 60

// Table is a simple aligned text table. Highlighted rows are drawn with
// the highlight function after padding, so escape codes do not break
// alignment.
type Table struct {
	Header    []string
	Rows      [][]string
	Highlight map[int]func(a ...interface{}) string
}

// Print writes the table to w.
func (t *Table) Print(w io.Writer) {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, r := range t.Rows {
		for i := 0; i < len(widths) && i < len(r); i++ {
			if n := utf8.RuneCountInString(r[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > maxCellWidth {
			widths[i] = maxCellWidth
		}
	}

	header := "  " + joinCells(t.Header, widths)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", utf8.RuneCountInString(header)-2))
	for i, r := range t.Rows {
		line := joinCells(r, widths)
		if hl, ok := t.Highlight[i]; ok && hl != nil {
			line = hl(line)
		}
		fmt.Fprintln(w, "  "+line)
	}
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		var c string
		if i < len(cells) {
			c = truncate(cells[i], widths[i])
		}
		parts[i] = c + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
