package print

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bgunnarsson/sqlpad/internal/grid"
)

type Options struct {
	MaxWidth int // max width for each column, 0 = 40
	MaxCells int // cell budget, 0 = grid.DefaultMaxCells
	MinWidth int // narrowest column, 0 = 1
}

// RenderTable writes t as an ASCII table. Rows past the cell budget are not
// written; the truncation notice follows the table instead.
func RenderTable(w io.Writer, t *grid.Table, opts Options) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 40
	}
	if opts.MaxCells <= 0 {
		opts.MaxCells = grid.DefaultMaxCells
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = 1
	}

	if t.Empty() {
		fmt.Fprintln(w, "(no columns)")
		return
	}

	widths := t.Widths(grid.RuneMetric, grid.RuneMetric, grid.Options{MaxCells: opts.MaxCells, MinWidth: opts.MinWidth})
	for i := range widths {
		widths[i] = min(widths[i], max(opts.MaxWidth, opts.MinWidth))
	}

	// helpers
	sep := func(ch string) string {
		var b strings.Builder
		b.WriteString("+")
		for i := range widths {
			b.WriteString(strings.Repeat(ch, widths[i]+2))
			b.WriteString("+")
		}
		return b.String()
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("|")
		for i, c := range cells {
			cut := truncate(flatten(c), widths[i])
			b.WriteString(" ")
			b.WriteString(padRight(cut, widths[i]))
			b.WriteString(" |")
		}
		fmt.Fprintln(w, b.String())
	}

	visible := t.VisibleRows(opts.MaxCells)

	// header
	fmt.Fprintln(w, sep("-"))
	writeRow(visible[0])
	fmt.Fprintln(w, sep("="))

	// data
	for _, r := range visible[1:] {
		writeRow(r)
	}
	fmt.Fprintln(w, sep("-"))

	if t.Truncated(opts.MaxCells) {
		fmt.Fprintln(w, grid.TruncationNotice)
	}
}

// flatten keeps multi-line cells on one table line.
func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

func padRight(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-3]) + "..."
}
