package ui

// Fixed lines around the two boxes: brand, connection, status, help, plus
// the borders of the editor and grid boxes.
const chromeLines = 1 + 1 + 1 + 1 + 2 + 2

type layout struct {
	innerWidth   int // inside a box border
	editorHeight int
	gridHeight   int // grid lines including header, rule and notice
}

func computeLayout(width, height int) layout {
	inner := width - 2
	if inner < 20 {
		inner = 20
	}

	avail := height - chromeLines
	editor := clamp(avail/3, 3, 12)
	gridH := avail - editor
	if gridH < 3 {
		gridH = 3
	}

	return layout{innerWidth: inner, editorHeight: editor, gridHeight: gridH}
}

// layoutCache holds the layout for the last viewport size seen.
type layoutCache struct {
	width, height int
	valid         bool
	current       layout
	builds        int
}

func (c *layoutCache) get(width, height int) layout {
	if c.valid && c.width == width && c.height == height {
		return c.current
	}
	c.current = computeLayout(width, height)
	c.width, c.height, c.valid = width, height, true
	c.builds++
	return c.current
}
