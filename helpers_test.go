package arbor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/arbor/internal/syntax"
)

const sampleSource = "a = 1\n# note"

// sampleTree builds the tree of sampleSource:
//
//	module
//	  assignment
//	    identifier "a"
//	    number "1"
//	  comment "# note"
func sampleTree() *syntax.StaticTree {
	root := syntax.Branch("module",
		syntax.Branch("assignment",
			syntax.Leaf("identifier", 0, 1),
			syntax.Leaf("number", 4, 5),
		),
		syntax.Leaf("comment", 6, 12),
	)
	return syntax.NewStaticTree("python", []byte(sampleSource), root)
}

func newSampleSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := NewSession(sampleTree(), opts...)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func jump(t *testing.T, s *Session, id syntax.ID) {
	t.Helper()
	p, err := syntax.ParseID(id)
	require.NoError(t, err)
	require.True(t, s.JumpTo(p), "jump to %s", id)
}

func rowIDs(f Frame) []syntax.ID {
	ids := make([]syntax.ID, len(f.Rows))
	for i, r := range f.Rows {
		ids[i] = r.ID
	}
	return ids
}
