package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jward/arbor"
)

// KeyMap binds keys to session commands plus the UI-only actions.
type KeyMap struct {
	Down        key.Binding
	Up          key.Binding
	Left        key.Binding
	Right       key.Binding
	Select      key.Binding
	Fold        key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Quit        key.Binding
	Yank        key.Binding
	DetailsUp   key.Binding
	DetailsDown key.Binding
	Help        key.Binding
}

// DefaultKeyMap returns the vi-style key map.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "child")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "parent")),
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next")),
		Select:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		Fold:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fold")),
		ScrollUp:    key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "scroll down")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Yank:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank")),
		DetailsUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "details up")),
		DetailsDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "details down")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// Command maps a key press onto a session command.
func (k KeyMap) Command(msg tea.KeyMsg) (arbor.Command, bool) {
	switch {
	case key.Matches(msg, k.Down):
		return arbor.MoveDown, true
	case key.Matches(msg, k.Up):
		return arbor.MoveUp, true
	case key.Matches(msg, k.Left):
		return arbor.MoveLeft, true
	case key.Matches(msg, k.Right):
		return arbor.MoveRight, true
	case key.Matches(msg, k.Select):
		return arbor.ToggleSelect, true
	case key.Matches(msg, k.Fold):
		return arbor.ToggleFold, true
	case key.Matches(msg, k.ScrollUp):
		return arbor.ScrollUp, true
	case key.Matches(msg, k.ScrollDown):
		return arbor.ScrollDown, true
	case key.Matches(msg, k.ExpandAll):
		return arbor.ExpandAll, true
	case key.Matches(msg, k.CollapseAll):
		return arbor.CollapseAll, true
	case key.Matches(msg, k.Quit):
		return arbor.Quit, true
	}
	return 0, false
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Left, k.Right, k.Select, k.Fold, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Left, k.Right},
		{k.Select, k.Fold, k.ExpandAll, k.CollapseAll},
		{k.ScrollUp, k.ScrollDown, k.DetailsUp, k.DetailsDown},
		{k.Yank, k.Help, k.Quit},
	}
}
