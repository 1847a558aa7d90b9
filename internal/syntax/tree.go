// Package syntax defines the read-only concrete syntax tree contract that the
// explorer consumes, plus the addressing primitives used to refer to nodes
// across render frames.
//
// A Tree is produced once by a parsing backend (see internal/grammar) and is
// never mutated afterwards. Nodes are addressed by Path, the sequence of
// child indices leading from the root, which doubles as the node's identity
// inside its tree. A Handle pairs a shared Tree with a Path and resolves the
// node on demand by walking the path, so handles are plain values that can be
// copied and stored freely.
package syntax

// Point is a (row, column) position in source. Both are 0-based; the column
// is measured in bytes, matching tree-sitter.
type Point struct {
	Row    uint32 `json:"row"`
	Column uint32 `json:"column"`
}

// Node is a single node of a parsed syntax tree. Implementations must return
// the same observable values for the same node for the lifetime of the tree.
type Node interface {
	// Type returns the grammar kind of the node, e.g. "identifier".
	Type() string

	// StartByte and EndByte bound the node's source range [start, end).
	StartByte() uint32
	EndByte() uint32

	StartPoint() Point
	EndPoint() Point

	// ChildCount returns the number of children, named and anonymous.
	ChildCount() int

	// Child returns the i-th child in source order, or nil when i is out
	// of range.
	Child(i int) Node

	IsNamed() bool
	IsError() bool
	IsMissing() bool
}

// Tree is an immutable parse result.
type Tree interface {
	// RootNode returns the root of the tree. It is never nil for a tree
	// returned by a successful parse.
	RootNode() Node

	// Source returns the text the tree was parsed from.
	Source() []byte

	// Language returns the grammar identifier used to parse Source.
	Language() string

	// Close releases resources held by the tree. Handles into a closed
	// tree must not be resolved.
	Close() error
}

// Text returns the source slice spanned by n.
func Text(t Tree, n Node) string {
	src := t.Source()
	start, end := n.StartByte(), n.EndByte()
	if end > uint32(len(src)) {
		end = uint32(len(src))
	}
	if start > end {
		return ""
	}
	return string(src[start:end])
}
