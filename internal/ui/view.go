package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jward/arbor"
)

// segment is a run of text drawn in one style.
type segment struct {
	text  string
	style lipgloss.Style
}

// fit truncates a line of segments to width display cells, marking the cut
// with an ellipsis, and renders it.
func fit(segs []segment, width int) string {
	var sb strings.Builder
	left := width
	for _, s := range segs {
		if left <= 0 {
			break
		}
		w := runewidth.StringWidth(s.text)
		text := s.text
		if w > left {
			text = runewidth.Truncate(text, left, "…")
			w = left
		}
		sb.WriteString(s.style.Render(text))
		left -= w
	}
	return sb.String()
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	tree, details := m.layout()
	view := m.renderTree(tree, m.renderFooter())
	if details > 0 {
		panel := m.theme.Border.
			Width(max(m.width-2, 0)).
			Height(max(details-2, 0)).
			Render(m.details.View())
		view = lipgloss.JoinVertical(lipgloss.Left, view, panel)
	}
	return view
}

// renderTree draws the title, the visible rows and the footer into height
// lines.
func (m Model) renderTree(height int, footer string) string {
	rows := rowsHeight(height, footer)
	f := m.session.Window(rows)
	lines := make([]string, 0, height)
	lines = append(lines, m.renderTitle())
	for i, row := range f.Rows {
		lines = append(lines, m.renderRow(row, i == f.Cursor, i == f.Selection))
	}
	body := m.session.DisplayRows(rows) + 1
	for len(lines) < body {
		lines = append(lines, "")
	}
	lines = append(lines, strings.Split(footer, "\n")...)
	return strings.Join(lines[:min(len(lines), height)], "\n")
}

// rowsHeight is the pane height handed to the session: the tree pane minus
// any footer lines beyond the one reserved row.
func rowsHeight(height int, footer string) int {
	return max(height-strings.Count(footer, "\n"), 0)
}

func (m Model) renderTitle() string {
	name := "<source>"
	if p := m.session.Path(); p != "" {
		name = filepath.Base(p)
	}
	total := m.session.Stats().Visible
	pos, _ := m.session.Position()
	return fit([]segment{
		{text: name, style: m.theme.Title},
		{text: " [" + string(m.session.Language()) + "]", style: m.theme.Muted},
		{text: fmt.Sprintf("  row %d of %d", pos+1, total), style: m.theme.Muted},
	}, m.width)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return fit([]segment{{text: m.status, style: m.theme.Status}}, m.width)
	}
	return m.help.View(m.keys)
}

// renderRow styles one row the way arbor.FormatRow lays it out.
func (m Model) renderRow(row arbor.Row, isCursor, isSelected bool) string {
	kind := m.theme.Kind(row.Kind)
	marker := segment{text: "  "}
	switch {
	case isCursor:
		marker = segment{text: "> ", style: m.theme.Cursor}
		kind = kind.Bold(true)
	case isSelected:
		marker = segment{text: "* ", style: m.theme.Marked}
		kind = kind.Bold(true)
	}
	segs := []segment{
		{text: strings.Repeat("  ", row.Depth), style: m.theme.Muted},
		marker,
		{text: row.Fold.Marker(), style: m.theme.Fold},
		{text: row.Kind, style: kind},
		{text: " " + row.Span.String() + " ", style: m.theme.Muted},
		{text: strconv.Itoa(row.ChildCount) + " ", style: m.theme.Muted},
	}
	if row.Text != "" {
		segs = append(segs, segment{text: row.Text, style: m.theme.Text})
	}
	return fit(segs, m.width)
}

// renderDetails lays out the details panel: node id, kind, span, then the
// raw text.
func (m Model) renderDetails(d arbor.Details) string {
	return strings.Join([]string{
		m.theme.Details.Render(string(d.ID)),
		m.theme.Kind(d.Kind).Bold(true).Render(d.Kind),
		m.theme.Span.Render(d.Span),
		m.theme.Text.Render(d.Text),
	}, "\n")
}
