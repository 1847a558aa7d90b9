package ui_test

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/syntax"
	"github.com/jward/arbor/internal/ui"
)

// newTestModel returns a sized model over
//
//	module
//	  assignment
//	    identifier "a"
//	    number "1"
//	  comment "# note"
func newTestModel(t *testing.T, width, height int, opts ...ui.Option) ui.Model {
	t.Helper()
	root := syntax.Branch("module",
		syntax.Branch("assignment",
			syntax.Leaf("identifier", 0, 1),
			syntax.Leaf("number", 4, 5),
		),
		syntax.Leaf("comment", 6, 12),
	)
	s := arbor.NewSession(syntax.NewStaticTree("python", []byte("a = 1\n# note"), root))
	t.Cleanup(func() { s.Close() })

	m := ui.New(s, opts...)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return newM.(ui.Model)
}

func press(t *testing.T, m ui.Model, keys ...tea.KeyMsg) (ui.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var newM tea.Model
		newM, cmd = m.Update(k)
		m = newM.(ui.Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyCtrlD = tea.KeyMsg{Type: tea.KeyCtrlD}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestKeyMap_Command(t *testing.T) {
	t.Parallel()

	km := ui.DefaultKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want arbor.Command
	}{
		{"j", runes("j"), arbor.MoveDown},
		{"down", keyDown, arbor.MoveDown},
		{"k", runes("k"), arbor.MoveUp},
		{"h", runes("h"), arbor.MoveLeft},
		{"l", runes("l"), arbor.MoveRight},
		{"right", keyRight, arbor.MoveRight},
		{"space", keySpace, arbor.ToggleSelect},
		{"enter", keyEnter, arbor.ToggleFold},
		{"ctrl+u", tea.KeyMsg{Type: tea.KeyCtrlU}, arbor.ScrollUp},
		{"ctrl+d", keyCtrlD, arbor.ScrollDown},
		{"E", runes("E"), arbor.ExpandAll},
		{"C", runes("C"), arbor.CollapseAll},
		{"q", runes("q"), arbor.Quit},
		{"ctrl+c", keyCtrlC, arbor.Quit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := km.Command(tt.msg)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := km.Command(runes("x"))
	assert.False(t, ok)
	_, ok = km.Command(runes("y"))
	assert.False(t, ok, "yank is UI-only")
}

func TestUpdate_Navigation(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 80, 20)
	m, _ = press(t, m, runes("j"), runes("j"), runes("l"))
	assert.Equal(t, syntax.ID("/0/1"), m.Session().Cursor().ID())

	m, _ = press(t, m, runes("k"), runes("k"))
	assert.Equal(t, syntax.ID("/"), m.Session().Cursor().ID())
}

func TestUpdate_QuitReturnsTeaQuit(t *testing.T) {
	t.Parallel()

	for _, k := range []tea.KeyMsg{runes("q"), keyCtrlC} {
		m := newTestModel(t, 80, 20)
		m, cmd := press(t, m, k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.False(t, m.Session().Running())
	}
}

func TestUpdate_UnknownKeyIsIgnored(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 80, 20)
	m, cmd := press(t, m, runes("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, syntax.ID("/"), m.Session().Cursor().ID())
}

func TestView_TreePane(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 80, 10)
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 10)

	assert.Contains(t, lines[0], "[python]")
	assert.Contains(t, lines[0], "row 1 of 5")
	assert.Contains(t, lines[1], "> [-] module [0:0..1:6] 2")
	assert.Contains(t, lines[2], "[-] assignment [0:0..0:5] 2")
	assert.Contains(t, lines[3], `identifier [0:0..0:1] 0 "a"`)
	assert.Contains(t, lines[5], `comment [1:0..1:6] 0 "# note"`)
	assert.Equal(t, "", strings.TrimSpace(lines[8]))
}

func TestView_FoldHidesChildren(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 80, 10)
	m, _ = press(t, m, runes("j"), keyEnter)

	view := m.View()
	assert.Contains(t, view, "[+] assignment")
	assert.NotContains(t, view, "identifier")
	assert.Contains(t, view, "row 2 of 3")
}

func TestView_SelectionOpensDetails(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 80, 20)
	m, _ = press(t, m, runes("j"), keySpace)

	view := m.View()
	assert.Len(t, strings.Split(view, "\n"), 20)
	assert.Contains(t, view, "[0:0 - 0:5]")
	assert.Contains(t, view, "a = 1")

	m, _ = press(t, m, keySpace)
	assert.NotContains(t, m.View(), "[0:0 - 0:5]")
}

func TestView_TruncatesToWidth(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 20, 10)
	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 20, "line %q", line)
	}
}

func TestView_FollowsCursor(t *testing.T) {
	t.Parallel()

	// Height 4 leaves two rows for the tree.
	m := newTestModel(t, 80, 4)
	m, _ = press(t, m, runes("j"), runes("j"), runes("l"))

	view := m.View()
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "number")
	assert.NotContains(t, view, "module [")
	assert.Equal(t, 2, m.Session().Offset())
}

func TestYank(t *testing.T) {
	t.Parallel()

	var copied string
	clip := func(s string) error { copied = s; return nil }

	m := newTestModel(t, 80, 20, ui.WithClipboard(clip))
	m, _ = press(t, m, runes("y"))
	assert.Equal(t, "nothing selected", m.Status())
	assert.Empty(t, copied)

	m, _ = press(t, m, runes("j"), keySpace, runes("y"))
	assert.Equal(t, "a = 1", copied)
	assert.Contains(t, m.Status(), "copied /0")
	assert.Contains(t, m.View(), "copied /0")

	m, _ = press(t, m, runes("j"))
	assert.Empty(t, m.Status(), "next command clears the status")
}

func TestYank_ClipboardError(t *testing.T) {
	t.Parallel()

	clip := func(string) error { return errors.New("no clipboard") }
	m := newTestModel(t, 80, 20, ui.WithClipboard(clip))
	m, _ = press(t, m, keySpace, runes("y"))
	assert.Contains(t, m.Status(), "no clipboard")
}

func TestHelpToggle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 120, 20)
	assert.NotContains(t, m.View(), "collapse all")

	m, _ = press(t, m, runes("?"))
	view := m.View()
	assert.Contains(t, view, "collapse all")
	assert.Len(t, strings.Split(view, "\n"), 20)
}

func TestTheme_KindOverrides(t *testing.T) {
	t.Parallel()

	th := ui.DefaultTheme(map[string]string{"module": "#ff0000"})
	assert.Equal(t, lipgloss.Color("#ff0000"), th.Kind("module").GetForeground())
	assert.Equal(t, lipgloss.Color("5"), th.Kind("assignment").GetForeground())
	assert.NotNil(t, th.Kind("unknown_kind"))
}
