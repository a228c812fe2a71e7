package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	colorBorder  = lipgloss.Color("#595B72")
	colorTitle   = lipgloss.Color("#89DCEB")
	colorAccent  = lipgloss.Color("#C0A1F0")
	colorText    = lipgloss.Color("#CDD6F4")
	colorSubtext = lipgloss.Color("#A6ADC8")
	colorMantle  = lipgloss.Color("#181825")
	colorRed     = lipgloss.Color("#F38BA8")
	colorGreen   = lipgloss.Color("#A6E3A1")
	colorYellow  = lipgloss.Color("#F9E2AF")
)

var (
	styleBrand  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	styleDriver = lipgloss.NewStyle().Foreground(colorAccent)
	styleLabel  = lipgloss.NewStyle().Foreground(colorTitle)

	styleBox        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder)
	styleBoxFocused = styleBox.BorderForeground(colorAccent)

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	styleCell   = lipgloss.NewStyle().Foreground(colorText)
	styleZebra  = lipgloss.NewStyle().Background(colorMantle)
	styleRule   = lipgloss.NewStyle().Foreground(colorBorder)
	styleNotice = lipgloss.NewStyle().Italic(true).Foreground(colorSubtext)

	styleOK   = lipgloss.NewStyle().Foreground(colorGreen)
	styleBusy = lipgloss.NewStyle().Foreground(colorYellow)
	styleErr  = lipgloss.NewStyle().Foreground(colorRed)

	stylePick       = lipgloss.NewStyle().Foreground(colorText)
	stylePickActive = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)
