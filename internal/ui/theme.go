package ui

import "github.com/charmbracelet/lipgloss"

// DefaultKindColors is the per-kind palette. Kinds not listed use White.
var DefaultKindColors = map[string]string{
	"source_file": "6",
	"assignment":  "5",
	"comment":     "8",
	"string":      "2",
	"identifier":  "3",
	"number":      "4",
	"function":    "1",
	"parameter":   "3",
	"argument":    "6",
}

// Theme holds every style the explorer draws with.
type Theme struct {
	kinds   map[string]lipgloss.Style
	deflt   lipgloss.Style
	Muted   lipgloss.Style
	Fold    lipgloss.Style
	Cursor  lipgloss.Style
	Marked  lipgloss.Style
	Text    lipgloss.Style
	Span    lipgloss.Style
	Title   lipgloss.Style
	Details lipgloss.Style
	Border  lipgloss.Style
	Status  lipgloss.Style
}

// DefaultTheme returns the stock theme with overrides applied on top of
// DefaultKindColors. Override values are lipgloss colors: ANSI numbers or
// hex strings.
func DefaultTheme(overrides map[string]string) Theme {
	t := Theme{
		kinds:   make(map[string]lipgloss.Style, len(DefaultKindColors)+len(overrides)),
		deflt:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Fold:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Cursor:  lipgloss.NewStyle().Bold(true),
		Marked:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("5")).Bold(true),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Span:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Details: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		Border:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
	for kind, color := range DefaultKindColors {
		t.kinds[kind] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	for kind, color := range overrides {
		t.kinds[kind] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return t
}

// Kind returns the style for a node kind.
func (t Theme) Kind(kind string) lipgloss.Style {
	if s, ok := t.kinds[kind]; ok {
		return s
	}
	return t.deflt
}
