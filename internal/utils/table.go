package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// WriteTable draws rows as a box table. Every row must have one cell per
// column; nothing is written when there are no rows.
func WriteTable(w io.Writer, columns []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	rule := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i, width := range widths {
			fmt.Fprint(w, strings.Repeat("─", width+2))
			if i < len(widths)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}
	line := func(cells []string) {
		fmt.Fprint(w, "│")
		for i, cell := range cells {
			fmt.Fprintf(w, " %s%s │", cell, strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
		}
		fmt.Fprintln(w)
	}

	rule("┌", "┬", "┐")
	line(columns)
	rule("├", "┼", "┤")
	for _, row := range rows {
		line(row)
	}
	rule("└", "┴", "┘")
}
