package display

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	DefaultWidth     = 80
	DefaultMaxColumn = 24
	columnGap        = "  "
	truncatedTail    = "~"
)

// Table lays rows out in columns under a dashed header. Cells wider than
// maxCol are cut short and marked with a tilde.
func Table(headers []string, rows [][]string, maxCol int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = min(ansi.PrintableRuneWidth(h), maxCol)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], min(ansi.PrintableRuneWidth(row[i]), maxCol))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		parts := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if ansi.PrintableRuneWidth(cell) > w {
				cell = truncate.StringWithTail(cell, uint(w), truncatedTail)
			}
			parts[i] = padding.String(cell, uint(w))
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, columnGap), " "))
		sb.WriteString("\n")
	}

	writeRow(headers)
	dashes := make([]string, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	writeRow(dashes)
	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}

// List renders items after a label, comma separated and word-wrapped to
// width. Continuation lines are indented to line up under the first item.
func List(label string, items []string, width int) string {
	prefix := label + ": "
	indent := strings.Repeat(" ", ansi.PrintableRuneWidth(prefix))

	wrapped := wordwrap.String(strings.Join(items, ", "), max(width-len(indent), 1))
	return prefix + strings.ReplaceAll(wrapped, "\n", "\n"+indent)
}
