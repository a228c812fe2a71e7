// Package grid holds query results as an immutable 2-D grid of display
// strings and computes bounded column widths for rendering.
package grid

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"unicode/utf8"
)

const (
	// DefaultMaxCells is the cell budget measured before a table counts as
	// truncated.
	DefaultMaxCells = 2048
	// DefaultMinWidth is the narrowest a column is ever rendered.
	DefaultMinWidth = 32

	TruncationNotice = "(For performance reasons, the remaining lines will not be output...)"
)

// ErrRaggedRows is returned by New when rows differ in length.
var ErrRaggedRows = errors.New("grid: rows differ in length")

// Metric measures the rendered size of a cell.
type Metric interface {
	Measure(text string) int
}

// MetricFunc adapts a function to Metric.
type MetricFunc func(text string) int

func (f MetricFunc) Measure(text string) int { return f(text) }

// RuneMetric measures text in runes; used for plain-text output.
var RuneMetric Metric = MetricFunc(utf8.RuneCountInString)

// Options bounds width computation. Zero values mean the defaults.
type Options struct {
	MaxCells int
	MinWidth int
}

func (o Options) withDefaults() Options {
	if o.MaxCells <= 0 {
		o.MaxCells = DefaultMaxCells
	}
	if o.MinWidth <= 0 {
		o.MinWidth = DefaultMinWidth
	}
	return o
}

// Table is a header row followed by value rows. It is never mutated after
// construction; a new query result always means a new Table.
type Table struct {
	rows [][]string

	widthsOnce sync.Once
	widths     []int
}

// New builds a table from rows, row 0 being the header.
func New(rows [][]string) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrRaggedRows, i, len(row), len(rows[0]))
		}
	}
	return &Table{rows: rows}, nil
}

// ErrorTable is the two-row table shown in place of a failed result.
func ErrorTable(msg string) *Table {
	return &Table{rows: [][]string{{"Error"}, {msg}}}
}

// Rows returns the underlying rows. Callers must not modify them.
func (t *Table) Rows() [][]string { return t.rows }

// Len counts rows including the header.
func (t *Table) Len() int { return len(t.rows) }

// Columns is the header length.
func (t *Table) Columns() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// Empty reports whether there is nothing to render.
func (t *Table) Empty() bool { return t == nil || t.Columns() == 0 }

// Header returns row 0, or nil for an empty table.
func (t *Table) Header() []string {
	if len(t.rows) == 0 {
		return nil
	}
	return t.rows[0]
}

// Limit is the number of leading rows inside the cell budget: row r is
// included while r*columns <= maxCells.
func (t *Table) Limit(maxCells int) int {
	cols := t.Columns()
	if cols == 0 {
		return len(t.rows)
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	if n := maxCells/cols + 1; n < len(t.rows) {
		return n
	}
	return len(t.rows)
}

// Truncated reports whether rows exist past the cell budget.
func (t *Table) Truncated(maxCells int) bool {
	return t.Limit(maxCells) < len(t.rows)
}

// VisibleRows is the bounded slice a renderer may iterate.
func (t *Table) VisibleRows(maxCells int) [][]string {
	return t.rows[:t.Limit(maxCells)]
}

// Widths returns the display width of every column. The header is measured
// with name and every other row with value; rows past the cell budget are not
// measured at all. The result is computed on first call and cached for the
// life of the table.
func (t *Table) Widths(name, value Metric, opts Options) []int {
	t.widthsOnce.Do(func() {
		t.widths = t.computeWidths(name, value, opts.withDefaults())
	})

	return slices.Clone(t.widths)
}

func (t *Table) computeWidths(name, value Metric, opts Options) []int {
	cols := t.Columns()
	if cols == 0 {
		return nil
	}

	widths := make([]int, cols)
	limit := t.Limit(opts.MaxCells)
	for rowIndex := 0; rowIndex < limit; rowIndex++ {
		metric := value
		if rowIndex == 0 {
			metric = name
		}
		for col, cell := range t.rows[rowIndex] {
			if w := metric.Measure(cell); w > widths[col] {
				widths[col] = w
			}
		}
	}

	for col, w := range widths {
		if w < opts.MinWidth {
			widths[col] = opts.MinWidth
		}
	}
	return widths
}
