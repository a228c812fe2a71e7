package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bgunnarsson/sqlpad/internal/grid"
)

const columnGap = " │ "

var (
	headerMetric = grid.MetricFunc(func(s string) int { return lipgloss.Width(styleHeader.Render(flatten(s))) })
	valueMetric  = grid.MetricFunc(func(s string) int { return lipgloss.Width(styleCell.Render(flatten(s))) })
)

// gridView renders a window of a table.
type gridView struct {
	table    *grid.Table
	maxCells int
	minCells int
	maxWidth int
}

func (g gridView) widths() []int {
	w := g.table.Widths(headerMetric, valueMetric, grid.Options{MaxCells: g.maxCells, MinWidth: g.minCells})
	for i := range w {
		if w[i] > g.maxWidth {
			w[i] = g.maxWidth
		}
	}
	return w
}

// dataRows is how many value rows fit in height lines.
func (g gridView) dataRows(height int) int {
	n := height - 2 // header, rule
	if g.table.Truncated(g.maxCells) {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

// maxRowOffset is the largest useful vertical scroll position.
func (g gridView) maxRowOffset(height int) int {
	values := len(g.table.VisibleRows(g.maxCells)) - 1
	if m := values - g.dataRows(height); m > 0 {
		return m
	}
	return 0
}

// columnsFrom returns the column range [first, last) that fits width.
func (g gridView) columnsFrom(first, width int, widths []int) int {
	used := 0
	last := first
	for last < len(widths) {
		need := widths[last]
		if last > first {
			need += lipgloss.Width(columnGap)
		}
		if used+need > width && last > first {
			break
		}
		used += need
		last++
	}
	return last
}

func (g gridView) render(width, height, rowOffset, colOffset int) string {
	if g.table.Empty() {
		return styleNotice.Render("No result yet. Press ctrl+e to execute.")
	}

	widths := g.widths()
	colOffset = clamp(colOffset, 0, len(widths)-1)
	last := g.columnsFrom(colOffset, width, widths)
	shown := widths[colOffset:last]

	visible := g.table.VisibleRows(g.maxCells)
	lines := make([]string, 0, height)

	lines = append(lines, g.renderRow(visible[0][colOffset:last], shown, styleHeader, false))

	rule := make([]string, len(shown))
	for i, w := range shown {
		rule[i] = strings.Repeat("─", w)
	}
	lines = append(lines, styleRule.Render(strings.Join(rule, "─┼─")))

	rowOffset = clamp(rowOffset, 0, g.maxRowOffset(height))
	values := visible[1:]
	end := rowOffset + g.dataRows(height)
	if end > len(values) {
		end = len(values)
	}
	for i := rowOffset; i < end; i++ {
		line := g.renderRow(values[i][colOffset:last], shown, styleCell, true)
		if i%2 == 1 {
			line = styleZebra.Render(line)
		}
		lines = append(lines, line)
	}

	if g.table.Truncated(g.maxCells) {
		lines = append(lines, styleNotice.Render(grid.TruncationNotice))
	}
	return strings.Join(lines, "\n")
}

func (g gridView) renderRow(cells []string, widths []int, style lipgloss.Style, alignNumbers bool) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		text := truncateCells(flatten(c), widths[i])
		if alignNumbers && looksNumeric(c) {
			text = padLeft(text, widths[i])
		} else {
			text = padRight(text, widths[i])
		}
		out[i] = style.Render(text)
	}
	return strings.Join(out, styleRule.Render(columnGap))
}
