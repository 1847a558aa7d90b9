package arbor

import (
	"errors"
	"log/slog"

	"github.com/jward/arbor/internal/grammar"
	"github.com/jward/arbor/internal/syntax"
)

// Session is the state of one explorer run over an immutable tree: cursor,
// optional selection, fold state and viewport. It is not safe for concurrent
// use; one command loop owns it.
type Session struct {
	tree     syntax.Tree
	backend  grammar.Backend
	path     string
	language grammar.Language

	cursor    syntax.Handle
	selection syntax.Handle
	selected  bool
	collapsed *CollapsedSet
	viewport  Viewport
	renderer  Renderer
	quit      bool

	log *slog.Logger
}

// NewSession starts a session on tree with the cursor at the root, nothing
// selected or folded, and the viewport at the top.
func NewSession(tree syntax.Tree, opts ...Option) *Session {
	o := newOptions(opts)
	return &Session{
		tree:      tree,
		language:  grammar.Language(tree.Language()),
		cursor:    syntax.RootHandle(tree),
		collapsed: NewCollapsedSet(),
		viewport:  Viewport{Reserved: o.reservedRows},
		renderer:  Renderer{TextBudget: o.textBudget},
		log:       o.logger,
	}
}

// Close releases the tree and, for sessions created by Open, the backend.
func (s *Session) Close() error {
	err := s.tree.Close()
	if s.backend != nil {
		err = errors.Join(err, s.backend.Close())
	}
	return err
}

func (s *Session) Tree() syntax.Tree          { return s.tree }
func (s *Session) Source() []byte             { return s.tree.Source() }
func (s *Session) Language() grammar.Language { return s.language }

// Path returns the file the session was opened from, if any.
func (s *Session) Path() string { return s.path }

// Cursor returns the focused node.
func (s *Session) Cursor() syntax.Handle { return s.cursor }

// Selection returns the selected node, if any.
func (s *Session) Selection() (syntax.Handle, bool) {
	return s.selection, s.selected
}

// Collapsed returns a copy of the fold state.
func (s *Session) Collapsed() *CollapsedSet { return s.collapsed.Clone() }

// Offset returns the index of the first displayed row.
func (s *Session) Offset() int { return s.viewport.Offset }

// Running reports whether Quit has not been applied yet.
func (s *Session) Running() bool { return !s.quit }

// Apply runs cmd and reports whether the command loop should continue.
func (s *Session) Apply(cmd Command) bool {
	if s.quit {
		return false
	}
	var changed bool
	switch cmd {
	case MoveDown:
		changed = s.MoveDown()
	case MoveUp:
		changed = s.MoveUp()
	case MoveLeft:
		changed = s.MoveLeft()
	case MoveRight:
		changed = s.MoveRight()
	case ToggleFold:
		changed = s.ToggleFold()
	case ToggleSelect:
		changed = s.ToggleSelect()
	case ScrollUp:
		changed = s.ScrollUp()
	case ScrollDown:
		changed = s.ScrollDown()
	case ExpandAll:
		changed = s.ExpandAll()
	case CollapseAll:
		changed = s.CollapseAll()
	case Quit:
		s.quit = true
		changed = true
	default:
		s.log.Warn("ignoring unknown command", "command", cmd)
	}
	s.log.Debug("apply", "command", cmd, "changed", changed, "cursor", s.cursor.ID())
	return !s.quit
}

// The movement and fold methods below report whether state changed. A false
// result is a no-op, never an error.

// MoveDown moves to the first child unless the cursor is a leaf or folded.
func (s *Session) MoveDown() bool {
	if s.collapsed.Contains(s.cursor.ID()) {
		return false
	}
	return s.moveTo(s.cursor.Child(0))
}

// MoveUp moves to the parent.
func (s *Session) MoveUp() bool {
	return s.moveTo(s.cursor.Parent())
}

// MoveLeft moves to the previous sibling, or to the parent at a first child.
func (s *Session) MoveLeft() bool {
	if s.moveTo(s.cursor.PrevSibling()) {
		return true
	}
	return s.moveTo(s.cursor.Parent())
}

// MoveRight moves to the next sibling.
func (s *Session) MoveRight() bool {
	return s.moveTo(s.cursor.NextSibling())
}

func (s *Session) moveTo(h syntax.Handle, ok bool) bool {
	if !ok {
		return false
	}
	s.cursor = h
	return true
}

// ToggleFold folds or unfolds the cursor node if it has children. Only the
// cursor's descendants are hidden, so the cursor stays visible.
func (s *Session) ToggleFold() bool {
	if s.cursor.ChildCount() == 0 {
		return false
	}
	s.collapsed.Toggle(s.cursor.ID())
	return true
}

// ToggleSelect selects the cursor node, or clears the selection if the
// cursor node is already selected.
func (s *Session) ToggleSelect() bool {
	if s.selected && s.selection.Equal(s.cursor) {
		s.ClearSelection()
		return true
	}
	s.selection, s.selected = s.cursor, true
	return true
}

// ClearSelection drops the selection.
func (s *Session) ClearSelection() {
	s.selection, s.selected = syntax.Handle{}, false
}

// Select sets the selection to the node at p without moving the cursor.
func (s *Session) Select(p syntax.Path) bool {
	h, ok := syntax.HandleAt(s.tree, p)
	if !ok {
		return false
	}
	s.selection, s.selected = h, true
	return true
}

// ScrollUp moves the viewport up one row.
func (s *Session) ScrollUp() bool {
	before := s.viewport.Offset
	s.viewport.ScrollUp()
	return s.viewport.Offset != before
}

// ScrollDown moves the viewport down one row.
func (s *Session) ScrollDown() bool {
	s.viewport.ScrollDown()
	return true
}

// ExpandAll unfolds every node.
func (s *Session) ExpandAll() bool {
	if s.collapsed.Len() == 0 {
		return false
	}
	s.collapsed.Clear()
	return true
}

// CollapseAll folds every node with children except the root, leaving the
// top level visible. A cursor inside a folded subtree moves to the folded
// ancestor that hides it.
func (s *Session) CollapseAll() bool {
	before := s.collapsed.Len()
	syntax.Walk(s.tree, func(v syntax.Visit) syntax.Action {
		if len(v.Path) > 0 && v.Node.ChildCount() > 0 {
			s.collapsed.Add(v.ID)
		}
		return syntax.Continue
	})
	s.reveal()
	return s.collapsed.Len() != before
}

// CollapseKind folds every node of the given kind that has children and
// returns how many were folded.
func (s *Session) CollapseKind(kind string) int {
	n := 0
	syntax.Walk(s.tree, func(v syntax.Visit) syntax.Action {
		if v.Node.Type() == kind && v.Node.ChildCount() > 0 {
			s.collapsed.Add(v.ID)
			n++
		}
		return syntax.Continue
	})
	s.reveal()
	return n
}

// reveal moves the cursor to its shallowest folded ancestor, if any.
func (s *Session) reveal() {
	p, hidden := hiddenBy(s.cursor.Path(), s.collapsed)
	if !hidden {
		return
	}
	h, _ := syntax.HandleAt(s.tree, p)
	s.log.Debug("cursor relocated", "from", s.cursor.ID(), "to", h.ID())
	s.cursor = h
}

// JumpTo moves the cursor to the node at p, unfolding any ancestors that
// hide it. It reports false when p does not address a node.
func (s *Session) JumpTo(p syntax.Path) bool {
	h, ok := syntax.HandleAt(s.tree, p)
	if !ok {
		return false
	}
	for _, anc := range h.Ancestors() {
		s.collapsed.Remove(anc.ID())
	}
	s.cursor = h
	return true
}

// Position returns the cursor's row in the display order.
func (s *Session) Position() (int, bool) {
	return Position(s.tree, s.collapsed, s.cursor.ID())
}

// Follow scrolls so the cursor is visible in a pane of the given height and
// returns the new offset.
func (s *Session) Follow(height int) int {
	pos, ok := s.Position()
	if !ok {
		return s.viewport.Offset
	}
	return s.viewport.Follow(pos, height)
}

// DisplayRows returns how many rows fit in a pane of the given height.
func (s *Session) DisplayRows(height int) int {
	return s.viewport.DisplayRows(height)
}

// Frame renders every visible row.
func (s *Session) Frame() Frame {
	var sel syntax.ID
	if s.selected {
		sel = s.selection.ID()
	}
	return s.renderer.Render(s.tree, s.collapsed, s.cursor.ID(), sel)
}

// Window renders the rows shown at the current offset in a pane of the given
// height. Cursor and Selection index into the window.
func (s *Session) Window(height int) Frame {
	f := s.Frame()
	lo := min(s.viewport.Offset, len(f.Rows))
	hi := min(lo+s.viewport.DisplayRows(height), len(f.Rows))
	shift := func(i int) int {
		if i < lo || i >= hi {
			return -1
		}
		return i - lo
	}
	return Frame{
		Rows:      f.Rows[lo:hi],
		Cursor:    shift(f.Cursor),
		Selection: shift(f.Selection),
	}
}

// Details returns the details panel payload for the selection.
func (s *Session) Details() (Details, bool) {
	if !s.selected {
		return Details{}, false
	}
	return s.renderer.Details(s.selection), true
}

// Stats summarizes the tree and the current fold state.
type Stats struct {
	Nodes     int `json:"nodes"`
	Named     int `json:"named"`
	Errors    int `json:"errors"`
	MaxDepth  int `json:"max_depth"`
	Visible   int `json:"visible"`
	Collapsed int `json:"collapsed"`
}

// Stats walks the whole tree.
func (s *Session) Stats() Stats {
	var st Stats
	syntax.Walk(s.tree, func(v syntax.Visit) syntax.Action {
		st.Nodes++
		if v.Node.IsNamed() {
			st.Named++
		}
		if v.Node.IsError() || v.Node.IsMissing() {
			st.Errors++
		}
		st.MaxDepth = max(st.MaxDepth, v.Depth)
		return syntax.Continue
	})
	st.Visible = VisibleCount(s.tree, s.collapsed)
	st.Collapsed = s.collapsed.Len()
	return st
}
