package print

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgunnarsson/sqlpad/internal/grid"
)

func TestRenderTable(t *testing.T) {
	table, err := grid.New([][]string{
		{"id", "name"},
		{"1", "Ada"},
		{"2", "Grace Hopper"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderTable(&buf, table, Options{})

	want := strings.Join([]string{
		"+----+--------------+",
		"| id | name         |",
		"+====+==============+",
		"| 1  | Ada          |",
		"| 2  | Grace Hopper |",
		"+----+--------------+",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderTable_ClipsWideCells(t *testing.T) {
	table, err := grid.New([][]string{{"body"}, {"abcdefghijkl"}, {"line\nbreak"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderTable(&buf, table, Options{MaxWidth: 8})

	out := buf.String()
	assert.Contains(t, out, "| abcde... |")
	assert.Contains(t, out, "| line ... |")
}

func TestRenderTable_Truncated(t *testing.T) {
	rows := [][]string{{"n"}}
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{"x"})
	}
	table, err := grid.New(rows)
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderTable(&buf, table, Options{MaxCells: 3})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header + 3 data rows inside the budget, 3 separators, the notice
	assert.Len(t, lines, 8)
	assert.Equal(t, grid.TruncationNotice, lines[len(lines)-1])
}

func TestRenderTable_ErrorTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, grid.ErrorTable("Division by 0"), Options{})
	assert.Contains(t, buf.String(), "| Division by 0 |")
}

func TestRenderTable_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, nil, Options{})
	assert.Equal(t, "(no columns)\n", buf.String())
}

func TestRenderTable_MinWidth(t *testing.T) {
	table, err := grid.New([][]string{{"n"}, {"1"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderTable(&buf, table, Options{MinWidth: 5})
	assert.Contains(t, buf.String(), "| n     |")
	assert.Contains(t, buf.String(), "| 1     |")
}
