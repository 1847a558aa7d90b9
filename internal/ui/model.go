// Package ui is the interactive terminal front end. It translates key
// presses into session commands and draws the session's frame; all
// navigation state lives in the session.
package ui

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/log"
)

// DefaultDetailsRatio is the share of the window given to the details panel
// while a node is selected.
const DefaultDetailsRatio = 0.3

// Model is the bubbletea model of the explorer.
type Model struct {
	session *arbor.Session
	keys    KeyMap
	help    help.Model
	theme   Theme
	details viewport.Model
	ratio   float64

	width  int
	height int
	status string

	copy func(string) error
	log  *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithKeyMap replaces the default key map.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithDetailsRatio sets the details panel share, clamped to [0.1, 0.9].
func WithDetailsRatio(r float64) Option {
	return func(m *Model) { m.ratio = min(max(r, 0.1), 0.9) }
}

// WithClipboard replaces the clipboard writer used by yank.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copy = fn }
}

// New returns a model driving s.
func New(s *arbor.Session, opts ...Option) Model {
	m := Model{
		session: s,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		theme:   DefaultTheme(nil),
		details: viewport.New(0, 0),
		ratio:   DefaultDetailsRatio,
		copy:    clipboard.WriteAll,
		log:     log.Component("ui"),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Session returns the driven session.
func (m Model) Session() *arbor.Session { return m.session }

// Status returns the last status message.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Yank):
		m.yank()
		return m, nil
	case key.Matches(msg, m.keys.DetailsUp):
		m.details.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.DetailsDown):
		m.details.LineDown(1)
		return m, nil
	}

	cmd, ok := m.keys.Command(msg)
	if !ok {
		return m, nil
	}
	m.status = ""
	if !m.session.Apply(cmd) {
		return m, tea.Quit
	}
	m.resize()
	return m, nil
}

// yank copies the selected node's source text.
func (m *Model) yank() {
	sel, ok := m.session.Selection()
	if !ok {
		m.status = "nothing selected"
		return
	}
	text := sel.Text()
	if err := m.copy(text); err != nil {
		m.log.Warn("clipboard write failed", "error", err)
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("copied %s (%d bytes)", sel.ID(), len(text))
}

// resize recomputes the pane split, keeps the cursor on screen and refreshes
// the details panel.
func (m *Model) resize() {
	tree, details := m.layout()
	m.session.Follow(rowsHeight(tree, m.renderFooter()))

	m.details.Width = max(m.width-2, 0)
	m.details.Height = max(details-2, 0)
	if d, ok := m.session.Details(); ok {
		m.details.SetContent(m.renderDetails(d))
	} else {
		m.details.SetContent("")
		m.details.GotoTop()
	}
}

// layout splits the window into tree pane and details panel heights. The
// details panel only exists while a node is selected.
func (m Model) layout() (tree, details int) {
	if _, ok := m.session.Selection(); !ok {
		return m.height, 0
	}
	details = int(float64(m.height) * m.ratio)
	return m.height - details, details
}
