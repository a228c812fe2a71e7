// Package ui is the interactive console: a connection string, an SQL editor
// and the result grid, driven by a bubbletea frame loop that polls the query
// session once per tick.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/bgunnarsson/sqlpad/internal/db"
	"github.com/bgunnarsson/sqlpad/internal/grid"
	"github.com/bgunnarsson/sqlpad/internal/session"
	"github.com/bgunnarsson/sqlpad/internal/templates"
	"github.com/bgunnarsson/sqlpad/internal/vault"
)

// Runner is the part of a session the console drives.
type Runner interface {
	Start(connectionString, sql string) uint64
	Poll() (session.Result, bool)
	Running() bool
}

type Options struct {
	Driver db.Driver
	Runner Runner
	// Config seeds the connection string and editor.
	Config vault.Config

	FrameInterval  time.Duration
	MaxCells       int
	MinColumnCells int
	MaxColumnCells int

	Logger logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.FrameInterval <= 0 {
		o.FrameInterval = 50 * time.Millisecond
	}
	if o.MaxCells <= 0 {
		o.MaxCells = grid.DefaultMaxCells
	}
	if o.MinColumnCells <= 0 {
		o.MinColumnCells = 4
	}
	if o.MaxColumnCells < o.MinColumnCells {
		o.MaxColumnCells = 40
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		o.Logger = l
	}
	return o
}

// Pane is the focused input area.
type Pane int

const (
	PaneConnection Pane = iota
	PaneEditor
	PaneGrid
	paneCount
)

type frameMsg time.Time

// Model is the bubbletea model of the console.
type Model struct {
	opts Options
	log  logrus.FieldLogger
	keys keyMap
	help help.Model

	conn    textinput.Model
	editor  textarea.Model
	spinner spinner.Model

	focus     Pane
	picking   bool
	pick      int
	templates []templates.Template

	table   *grid.Table
	runID   uint64
	status  string
	failed  bool
	running bool

	rowOffset int
	colOffset int

	width, height int
	layout        *layoutCache
	quitting      bool
}

// New returns the console model with opts.Config loaded into its inputs.
func New(opts Options) Model {
	opts = opts.withDefaults()

	conn := textinput.New()
	conn.Prompt = ""
	conn.Placeholder = "Server=localhost; Port=3306; UserID=root;"
	conn.CharLimit = 0
	conn.SetValue(opts.Config.ConnectionString)

	editor := textarea.New()
	editor.Placeholder = "SQL to execute..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.FocusedStyle.CursorLine = lipgloss.NewStyle()
	editor.BlurredStyle.CursorLine = lipgloss.NewStyle()
	editor.SetValue(opts.Config.QueryText)
	editor.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleBusy

	return Model{
		opts:      opts,
		log:       opts.Logger,
		keys:      defaultKeyMap(),
		help:      help.New(),
		conn:      conn,
		editor:    editor,
		spinner:   sp,
		focus:     PaneEditor,
		templates: templates.For(opts.Driver),
		status:    "Ready.",
		layout:    &layoutCache{},
	}
}

// Config returns the connection string and SQL as currently edited.
func (m Model) Config() vault.Config {
	return vault.Config{
		ConnectionString: m.conn.Value(),
		QueryText:        m.editor.Value(),
	}
}

// Table is the table on display, nil before the first result.
func (m Model) Table() *grid.Table { return m.table }

func (m Model) Status() string { return m.status }

func (m Model) Focus() Pane { return m.focus }

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.frameTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case frameMsg:
		m.poll()
		return m, m.frameTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) resize() {
	l := m.layout.get(m.width, m.height)
	m.conn.Width = l.innerWidth - lipgloss.Width(connLabel) - 1
	m.editor.SetWidth(l.innerWidth)
	m.editor.SetHeight(l.editorHeight)
}

// poll adopts a finished run. Called once per frame; never blocks.
func (m *Model) poll() {
	m.running = m.opts.Runner.Running()

	res, ok := m.opts.Runner.Poll()
	if !ok {
		return
	}

	m.running = false
	m.table = res.Table
	m.rowOffset, m.colOffset = 0, 0
	m.failed = res.State == session.Failed

	elapsed := res.Elapsed.Truncate(time.Millisecond)
	if m.failed {
		m.status = fmt.Sprintf("Query failed (%s)", elapsed)
	} else {
		m.status = fmt.Sprintf("Query OK (%d rows, %s)", res.Table.Len()-1, elapsed)
		if res.Table.Truncated(m.opts.MaxCells) {
			m.status += ", output truncated"
		}
	}

	m.log.WithFields(logrus.Fields{
		"run":     res.RunID,
		"state":   res.State,
		"elapsed": res.Elapsed,
	}).Debug("Result adopted")
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.picking {
		return m.handlePicker(msg), nil
	}

	switch {
	case key.Matches(msg, m.keys.Execute):
		m.execute()
		return m, nil

	case key.Matches(msg, m.keys.Templates):
		if !m.running && len(m.templates) > 0 {
			m.picking = true
			m.pick = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		return m, m.setFocus((m.focus + 1) % paneCount)
	}

	if m.focus == PaneGrid {
		m.scroll(msg)
		return m, nil
	}

	// the inputs are read-only while a query runs
	if m.running {
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m Model) handlePicker(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pick = clamp(m.pick-1, 0, len(m.templates)-1)
	case key.Matches(msg, m.keys.Down):
		m.pick = clamp(m.pick+1, 0, len(m.templates)-1)
	case key.Matches(msg, m.keys.Select):
		m.editor.SetValue(m.templates[m.pick].SQL)
		m.picking = false
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Templates):
		m.picking = false
	}
	return m
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case PaneConnection:
		m.conn, cmd = m.conn.Update(msg)
	case PaneEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(p Pane) tea.Cmd {
	m.focus = p
	m.conn.Blur()
	m.editor.Blur()
	switch p {
	case PaneConnection:
		return m.conn.Focus()
	case PaneEditor:
		return m.editor.Focus()
	}
	return nil
}

// execute starts a run with the inputs as they are now. A run already in
// flight is superseded.
func (m *Model) execute() {
	sql := m.editor.Value()
	if strings.TrimSpace(sql) == "" {
		m.status = "Nothing to execute."
		return
	}

	m.runID = m.opts.Runner.Start(m.conn.Value(), sql)
	m.running = true
	m.failed = false
	m.status = "Running query… " + truncateInline(sql, 60)

	m.log.WithField("run", m.runID).Debug("Execute requested")
}

func (m *Model) scroll(msg tea.KeyMsg) {
	if m.table.Empty() {
		return
	}

	l := m.layout.get(m.width, m.height)
	g := m.resultGrid()
	page := g.dataRows(l.gridHeight)
	maxRow := g.maxRowOffset(l.gridHeight)
	maxCol := m.table.Columns() - 1

	switch {
	case key.Matches(msg, m.keys.Up):
		m.rowOffset--
	case key.Matches(msg, m.keys.Down):
		m.rowOffset++
	case key.Matches(msg, m.keys.PageUp):
		m.rowOffset -= page
	case key.Matches(msg, m.keys.PageDown):
		m.rowOffset += page
	case key.Matches(msg, m.keys.Left):
		m.colOffset--
	case key.Matches(msg, m.keys.Right):
		m.colOffset++
	case key.Matches(msg, m.keys.Home):
		m.rowOffset, m.colOffset = 0, 0
	}
	m.rowOffset = clamp(m.rowOffset, 0, maxRow)
	m.colOffset = clamp(m.colOffset, 0, maxCol)
}

func (m Model) resultGrid() gridView {
	return gridView{
		table:    m.table,
		maxCells: m.opts.MaxCells,
		minCells: m.opts.MinColumnCells,
		maxWidth: m.opts.MaxColumnCells,
	}
}

// Run runs the console until the user quits or ctx is done, and returns the
// configuration as last edited.
func Run(ctx context.Context, opts Options) (vault.Config, error) {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		return fm.Config(), err
	}
	return opts.Config, err
}
