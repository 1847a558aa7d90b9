package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor/internal/syntax"
)

func TestSession_Initial(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)

	assert.True(t, s.Cursor().IsRoot())
	_, ok := s.Selection()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Offset())
	assert.Equal(t, 0, s.Collapsed().Len())
	assert.True(t, s.Running())
	assert.Equal(t, "python", string(s.Language()))
}

func TestSession_SiblingMoves(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)
	jump(t, s, "/0/0")

	// identifier has no previous sibling, so MoveLeft does not reach a
	// sibling and falls back to the parent.
	s.Apply(MoveLeft)
	assert.Equal(t, syntax.ID("/0"), s.Cursor().ID())

	jump(t, s, "/0/0")
	s.Apply(MoveRight)
	assert.Equal(t, syntax.ID("/0/1"), s.Cursor().ID())
	assert.Equal(t, "number", s.Cursor().Node().Type())

	// number is the last child.
	assert.False(t, s.MoveRight())
	assert.Equal(t, syntax.ID("/0/1"), s.Cursor().ID())

	s.Apply(MoveLeft)
	assert.Equal(t, syntax.ID("/0/0"), s.Cursor().ID())
}

func TestSession_Movement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   syntax.ID
		folded  []syntax.ID
		cmd     Command
		want    syntax.ID
		changed bool
	}{
		{"down from root", "/", nil, MoveDown, "/0", true},
		{"down from leaf", "/0/0", nil, MoveDown, "/0/0", false},
		{"down from folded", "/0", []syntax.ID{"/0"}, MoveDown, "/0", false},
		{"up from root", "/", nil, MoveUp, "/", false},
		{"up from leaf", "/0/1", nil, MoveUp, "/0", true},
		{"left at root", "/", nil, MoveLeft, "/", false},
		{"left to sibling", "/1", nil, MoveLeft, "/0", true},
		{"right to sibling", "/0", nil, MoveRight, "/1", true},
		{"right at root", "/", nil, MoveRight, "/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newSampleSession(t)
			jump(t, s, tt.start)
			s.collapsed = NewCollapsedSet(tt.folded...)

			var changed bool
			switch tt.cmd {
			case MoveDown:
				changed = s.MoveDown()
			case MoveUp:
				changed = s.MoveUp()
			case MoveLeft:
				changed = s.MoveLeft()
			case MoveRight:
				changed = s.MoveRight()
			}
			assert.Equal(t, tt.want, s.Cursor().ID())
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestSession_ToggleFold(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)
	jump(t, s, "/0")

	s.Apply(ToggleFold)
	assert.True(t, s.Collapsed().Contains("/0"))
	assert.Len(t, s.Frame().Rows, 3)

	s.Apply(ToggleFold)
	assert.False(t, s.Collapsed().Contains("/0"))
	assert.Len(t, s.Frame().Rows, 5)

	jump(t, s, "/1")
	assert.False(t, s.ToggleFold(), "leaves cannot fold")
	assert.Equal(t, 0, s.Collapsed().Len())
}

func TestSession_ToggleSelect(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)
	jump(t, s, "/1")

	s.Apply(ToggleSelect)
	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, syntax.ID("/1"), sel.ID())

	// Moving keeps the selection; selecting elsewhere replaces it.
	s.Apply(MoveLeft)
	s.Apply(ToggleSelect)
	sel, ok = s.Selection()
	require.True(t, ok)
	assert.Equal(t, syntax.ID("/0"), sel.ID())

	s.Apply(ToggleSelect)
	_, ok = s.Selection()
	assert.False(t, ok)
}

func TestSession_Scroll(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)

	assert.False(t, s.ScrollUp())
	s.Apply(ScrollDown)
	s.Apply(ScrollDown)
	assert.Equal(t, 2, s.Offset())

	// The cursor at the root is above the window, so Follow pulls it back.
	assert.Equal(t, 0, s.Follow(10))
}

func TestSession_FollowKeepsCursorVisible(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t, WithReservedRows(1))
	const height = 3 // two rows

	jump(t, s, "/1")
	assert.Equal(t, 3, s.Follow(height))

	w := s.Window(height)
	assert.Equal(t, []syntax.ID{"/0/1", "/1"}, rowIDs(w))
	assert.Equal(t, 1, w.Cursor)

	s.Apply(MoveLeft)
	assert.Equal(t, 1, s.Follow(height))
	w = s.Window(height)
	assert.Equal(t, []syntax.ID{"/0", "/0/0"}, rowIDs(w))
	assert.Equal(t, 0, w.Cursor)
	assert.Equal(t, -1, w.Selection)
}

func TestSession_ExpandCollapseAll(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)
	jump(t, s, "/0/1")

	s.Apply(CollapseAll)
	assert.Equal(t, []syntax.ID{"/0"}, s.Collapsed().IDs(), "root stays open")
	assert.Equal(t, syntax.ID("/0"), s.Cursor().ID(), "cursor moved to the folded ancestor")
	assert.Equal(t, []syntax.ID{"/", "/0", "/1"}, rowIDs(s.Frame()))

	pos, ok := s.Position()
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	assert.False(t, s.CollapseAll(), "already collapsed")

	s.Apply(ExpandAll)
	assert.Equal(t, 0, s.Collapsed().Len())
	assert.Len(t, s.Frame().Rows, 5)
	assert.False(t, s.ExpandAll())
}

func TestSession_CollapseKind(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)
	jump(t, s, "/0/0")

	assert.Equal(t, 1, s.CollapseKind("assignment"))
	assert.Equal(t, syntax.ID("/0"), s.Cursor().ID())
	assert.Equal(t, 0, s.CollapseKind("comment"), "leaves are never folded")
}

func TestSession_JumpToUnfoldsAncestors(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)
	s.Apply(CollapseAll)

	jump(t, s, "/0/1")
	assert.False(t, s.Collapsed().Contains("/0"))
	pos, ok := s.Position()
	require.True(t, ok)
	assert.Equal(t, 3, pos)

	assert.False(t, s.JumpTo(syntax.Path{4}))
	assert.Equal(t, syntax.ID("/0/1"), s.Cursor().ID())
}

func TestSession_Quit(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)

	assert.True(t, s.Apply(MoveDown))
	assert.False(t, s.Apply(Quit))
	assert.False(t, s.Running())
	assert.False(t, s.Apply(MoveDown), "commands after quit are ignored")
	assert.Equal(t, syntax.ID("/0"), s.Cursor().ID())
}

func TestSession_DetailsAndStats(t *testing.T) {
	t.Parallel()
	s := newSampleSession(t)

	_, ok := s.Details()
	assert.False(t, ok)

	jump(t, s, "/1")
	s.Apply(ToggleSelect)
	d, ok := s.Details()
	require.True(t, ok)
	assert.Equal(t, Details{ID: "/1", Kind: "comment", Span: "[1:0 - 1:6]", Text: "# note"}, d)

	st := s.Stats()
	assert.Equal(t, Stats{Nodes: 5, Named: 5, MaxDepth: 2, Visible: 5}, st)
}

func TestCommand_Names(t *testing.T) {
	t.Parallel()

	for _, cmd := range Commands() {
		got, err := ParseCommand(cmd.String())
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
	}
	_, err := ParseCommand("jump")
	assert.Error(t, err)
	assert.Equal(t, "Command(99)", Command(99).String())
	assert.Len(t, Commands(), 11)
}
