package arbor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jward/arbor/internal/syntax"
)

// DefaultTextBudget is the number of characters of leaf text shown before
// truncation.
const DefaultTextBudget = 100

// Fold is a row's fold marker state.
type Fold int

const (
	// FoldNone marks a leaf; there is nothing to fold.
	FoldNone Fold = iota
	FoldExpanded
	FoldCollapsed
)

func (f Fold) String() string {
	switch f {
	case FoldExpanded:
		return "expanded"
	case FoldCollapsed:
		return "collapsed"
	default:
		return "none"
	}
}

// Marker returns the fold indicator drawn before the kind.
func (f Fold) Marker() string {
	switch f {
	case FoldExpanded:
		return "[-] "
	case FoldCollapsed:
		return "[+] "
	default:
		return "    "
	}
}

func (f Fold) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Span is a node's (row, column) extent.
type Span struct {
	Start syntax.Point `json:"start"`
	End   syntax.Point `json:"end"`
}

func spanOf(n syntax.Node) Span {
	return Span{Start: n.StartPoint(), End: n.EndPoint()}
}

// String formats the span as [r:c..r:c].
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d..%d:%d]", s.Start.Row, s.Start.Column, s.End.Row, s.End.Column)
}

// Long formats the span as [r:c - r:c], used by the details panel.
func (s Span) Long() string {
	return fmt.Sprintf("[%d:%d - %d:%d]", s.Start.Row, s.Start.Column, s.End.Row, s.End.Column)
}

// Row is the display record of one visible node.
type Row struct {
	ID         syntax.ID   `json:"id"`
	Path       syntax.Path `json:"-"`
	Depth      int         `json:"depth"`
	Fold       Fold        `json:"fold"`
	Kind       string      `json:"kind"`
	Span       Span        `json:"span"`
	ChildCount int         `json:"child_count"`
	Leaf       bool        `json:"leaf"`

	// Text is the quoted, escaped and truncated source of a leaf. Empty for
	// nodes with children.
	Text string `json:"text,omitempty"`

	Named   bool `json:"named"`
	Error   bool `json:"error,omitempty"`
	Missing bool `json:"missing,omitempty"`
}

// Frame is one rendering of a session. Cursor and Selection index into Rows,
// or are -1 when the node is not among them.
type Frame struct {
	Rows      []Row `json:"rows"`
	Cursor    int   `json:"cursor"`
	Selection int   `json:"selection"`
}

// Details is the payload of the details panel for the selected node.
type Details struct {
	ID   syntax.ID `json:"id"`
	Kind string    `json:"kind"`
	Span string    `json:"span"`
	Text string    `json:"text"`
}

// Renderer turns a tree and its fold state into display records. It does no
// styling.
type Renderer struct {
	TextBudget int
}

func (r Renderer) budget() int {
	if r.TextBudget <= 0 {
		return DefaultTextBudget
	}
	return r.TextBudget
}

// Render emits one row per visible node in display order and locates the
// cursor and selection among them. An empty selection means none.
func (r Renderer) Render(t syntax.Tree, collapsed *CollapsedSet, cursor, selection syntax.ID) Frame {
	f := Frame{Cursor: -1, Selection: -1}
	syntax.Walk(t, func(v syntax.Visit) syntax.Action {
		if v.ID == cursor {
			f.Cursor = len(f.Rows)
		}
		if selection != "" && v.ID == selection {
			f.Selection = len(f.Rows)
		}
		row := r.row(t, v, collapsed)
		f.Rows = append(f.Rows, row)
		if row.Fold == FoldCollapsed {
			return syntax.SkipChildren
		}
		return syntax.Continue
	})
	return f
}

func (r Renderer) row(t syntax.Tree, v syntax.Visit, collapsed *CollapsedSet) Row {
	n := v.Node
	children := n.ChildCount()
	row := Row{
		ID:         v.ID,
		Path:       v.Path,
		Depth:      v.Depth,
		Kind:       n.Type(),
		Span:       spanOf(n),
		ChildCount: children,
		Leaf:       children == 0,
		Named:      n.IsNamed(),
		Error:      n.IsError(),
		Missing:    n.IsMissing(),
	}
	switch {
	case children == 0:
		row.Text = LeafText(syntax.Text(t, n), r.budget())
	case collapsed.Contains(v.ID):
		row.Fold = FoldCollapsed
	default:
		row.Fold = FoldExpanded
	}
	return row
}

// Details returns the details panel payload for the node at h.
func (r Renderer) Details(h syntax.Handle) Details {
	n := h.Node()
	text, _ := truncate(h.Text(), r.budget())
	return Details{
		ID:   h.ID(),
		Kind: n.Type(),
		Span: spanOf(n).Long(),
		Text: text,
	}
}

// LeafText quotes s for display: at most budget characters, with newlines,
// carriage returns and tabs escaped, and a "... (N)" suffix carrying the
// full character count when truncated.
func LeafText(s string, budget int) string {
	head, cut := headRunes(s, budget)
	quoted := `"` + escaper.Replace(head) + `"`
	if cut {
		quoted += truncatedSuffix(s)
	}
	return quoted
}

var escaper = strings.NewReplacer("\\", `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`, `"`, `\"`)

// truncate returns the first budget runes of s followed by "... (N)" when s
// is longer; cut reports whether truncation happened.
func truncate(s string, budget int) (string, bool) {
	head, cut := headRunes(s, budget)
	if cut {
		head += truncatedSuffix(s)
	}
	return head, cut
}

func headRunes(s string, budget int) (string, bool) {
	if budget <= 0 || utf8.RuneCountInString(s) <= budget {
		return s, false
	}
	n := 0
	for i := range s {
		if n == budget {
			return s[:i], true
		}
		n++
	}
	return s, false
}

func truncatedSuffix(s string) string {
	return fmt.Sprintf("... (%d)", utf8.RuneCountInString(s))
}

// FormatRow renders a row as one plain-text line:
//
//	<indent><marker><fold><kind> [r:c..r:c] <children> <text>
//
// The marker is "> " for the cursor, "* " for the selection and two spaces
// otherwise.
func FormatRow(row Row, isCursor, isSelected bool) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", row.Depth))
	switch {
	case isCursor:
		sb.WriteString("> ")
	case isSelected:
		sb.WriteString("* ")
	default:
		sb.WriteString("  ")
	}
	sb.WriteString(row.Fold.Marker())
	sb.WriteString(row.Kind)
	fmt.Fprintf(&sb, " %s %d ", row.Span, row.ChildCount)
	sb.WriteString(row.Text)
	return sb.String()
}

// FormatFrame renders every row of f with FormatRow, one per line.
func FormatFrame(f Frame) string {
	var sb strings.Builder
	for i, row := range f.Rows {
		sb.WriteString(FormatRow(row, i == f.Cursor, i == f.Selection))
		sb.WriteByte('\n')
	}
	return sb.String()
}
