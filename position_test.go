package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor/internal/syntax"
)

func TestFlatten_Expanded(t *testing.T) {
	t.Parallel()
	tree := sampleTree()

	rows := Flatten(tree, NewCollapsedSet())
	require.Len(t, rows, 5)

	var kinds []string
	for _, v := range rows {
		kinds = append(kinds, v.Node.Type())
	}
	assert.Equal(t, []string{"module", "assignment", "identifier", "number", "comment"}, kinds)

	tests := []struct {
		id   syntax.ID
		want int
	}{
		{syntax.RootID, 0},
		{"/0", 1},
		{"/0/0", 2},
		{"/0/1", 3},
		{"/1", 4},
	}
	for _, tt := range tests {
		got, ok := Position(tree, nil, tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.want, got, tt.id)
	}
}

func TestFlatten_CollapsedAssignment(t *testing.T) {
	t.Parallel()
	tree := sampleTree()
	collapsed := NewCollapsedSet("/0")

	assert.Len(t, Flatten(tree, collapsed), 3)
	assert.Equal(t, 3, VisibleCount(tree, collapsed))

	pos, ok := Position(tree, collapsed, "/1")
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	pos, ok = Position(tree, collapsed, "/0")
	require.True(t, ok, "a folded node is still displayed")
	assert.Equal(t, 1, pos)

	_, ok = Position(tree, collapsed, "/0/0")
	assert.False(t, ok, "identifier is hidden")
	_, ok = Position(tree, collapsed, "/7")
	assert.False(t, ok)
}

func TestFlatten_FoldedLeafIsIgnored(t *testing.T) {
	t.Parallel()
	tree := sampleTree()

	assert.Len(t, Flatten(tree, NewCollapsedSet("/1")), 5)
}

func TestHiddenBy(t *testing.T) {
	t.Parallel()
	collapsed := NewCollapsedSet("/0", "/0/1")

	p, ok := hiddenBy(syntax.Path{0, 1, 3}, collapsed)
	require.True(t, ok)
	assert.Equal(t, syntax.Path{0}, p)

	_, ok = hiddenBy(syntax.Path{0}, collapsed)
	assert.False(t, ok, "a node is not hidden by its own fold")
	_, ok = hiddenBy(syntax.Path{1, 0}, collapsed)
	assert.False(t, ok)
}

func TestCollapsedSet(t *testing.T) {
	t.Parallel()

	var zero CollapsedSet
	assert.False(t, zero.Contains("/"))
	assert.True(t, zero.Toggle("/1"))
	assert.True(t, zero.Contains("/1"))
	assert.False(t, zero.Toggle("/1"))
	assert.Equal(t, 0, zero.Len())

	c := NewCollapsedSet("/2", "/0", "/1/0")
	assert.Equal(t, []syntax.ID{"/0", "/1/0", "/2"}, c.IDs())

	clone := c.Clone()
	clone.Remove("/0")
	assert.True(t, c.Contains("/0"))
	assert.Equal(t, 2, clone.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())

	var nilSet *CollapsedSet
	assert.False(t, nilSet.Contains("/"))
	assert.Nil(t, nilSet.IDs())
}
