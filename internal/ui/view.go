package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const connLabel = "Connection "

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading…"
	}

	l := m.layout.get(m.width, m.height)

	brand := styleBrand.Render("SQLPAD") + "  " + styleDriver.Render(strings.ToUpper(string(m.opts.Driver)))
	conn := styleLabel.Render(connLabel) + m.conn.View()

	var middle string
	if m.picking {
		middle = m.box(m.pickerView(l), l.innerWidth, l.editorHeight, true)
	} else {
		middle = m.box(m.editor.View(), l.innerWidth, l.editorHeight, m.focus == PaneEditor)
	}

	body := m.resultGrid().render(l.innerWidth, l.gridHeight, m.rowOffset, m.colOffset)
	results := m.box(body, l.innerWidth, l.gridHeight, m.focus == PaneGrid)

	bindings := m.keys.ShortHelp()
	if m.picking {
		bindings = m.keys.pickerHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		brand,
		conn,
		middle,
		results,
		m.statusView(),
		m.help.ShortHelpView(bindings),
	)
}

func (m Model) box(content string, width, height int, focused bool) string {
	style := styleBox
	if focused {
		style = styleBoxFocused
	}
	return style.Width(width).Height(height).MaxHeight(height + 2).Render(content)
}

func (m Model) statusView() string {
	switch {
	case m.running:
		return m.spinner.View() + " " + styleBusy.Render(m.status)
	case m.failed:
		return styleErr.Render(m.status)
	case m.table != nil:
		return styleOK.Render(m.status)
	default:
		return m.status
	}
}

func (m Model) pickerView(l layout) string {
	lines := make([]string, 0, len(m.templates))
	for i, t := range m.templates {
		if i == m.pick {
			lines = append(lines, stylePickActive.Render("> "+t.Name))
			continue
		}
		lines = append(lines, stylePick.Render("  "+t.Name))
	}
	if len(lines) > l.editorHeight {
		lines = lines[:l.editorHeight]
	}
	return strings.Join(lines, "\n")
}
