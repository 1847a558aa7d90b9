package syntax

import "sort"

// StaticNode is an in-memory node. Backends that cannot hand out live nodes
// materialize their trees into StaticNodes; tests build fixtures with Leaf
// and Branch.
type StaticNode struct {
	Kind     string
	Start    uint32
	End      uint32
	Named    bool
	Error    bool
	Missing  bool
	Children []*StaticNode

	startPt Point
	endPt   Point
}

// Leaf returns a named node without children spanning [start, end).
func Leaf(kind string, start, end uint32) *StaticNode {
	return &StaticNode{Kind: kind, Start: start, End: end, Named: true}
}

// Token returns an anonymous node spanning [start, end), such as "=".
func Token(kind string, start, end uint32) *StaticNode {
	return &StaticNode{Kind: kind, Start: start, End: end}
}

// Branch returns a named node spanning its children.
func Branch(kind string, children ...*StaticNode) *StaticNode {
	n := &StaticNode{Kind: kind, Named: true, Children: children}
	if len(children) > 0 {
		n.Start = children[0].Start
		n.End = children[len(children)-1].End
	}
	return n
}

func (n *StaticNode) Type() string      { return n.Kind }
func (n *StaticNode) StartByte() uint32 { return n.Start }
func (n *StaticNode) EndByte() uint32   { return n.End }
func (n *StaticNode) StartPoint() Point { return n.startPt }
func (n *StaticNode) EndPoint() Point   { return n.endPt }
func (n *StaticNode) ChildCount() int   { return len(n.Children) }
func (n *StaticNode) IsNamed() bool     { return n.Named }
func (n *StaticNode) IsError() bool     { return n.Error }
func (n *StaticNode) IsMissing() bool   { return n.Missing }

func (n *StaticNode) Child(i int) Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// StaticTree is a Tree held entirely in memory.
type StaticTree struct {
	language string
	source   []byte
	root     *StaticNode
}

// NewStaticTree wraps root as a tree over source. Start and end points of
// every node are derived from their byte offsets.
func NewStaticTree(language string, source []byte, root *StaticNode) *StaticTree {
	lines := lineStarts(source)
	stack := []*StaticNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n.startPt = pointAt(lines, n.Start)
		n.endPt = pointAt(lines, n.End)
		stack = append(stack, n.Children...)
	}
	return &StaticTree{language: language, source: source, root: root}
}

func (t *StaticTree) RootNode() Node {
	if t.root == nil {
		return nil
	}
	return t.root
}

func (t *StaticTree) Source() []byte   { return t.source }
func (t *StaticTree) Language() string { return t.language }
func (t *StaticTree) Close() error     { return nil }

// lineStarts returns the byte offset of the first byte of every line.
func lineStarts(src []byte) []uint32 {
	starts := []uint32{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return starts
}

func pointAt(starts []uint32, off uint32) Point {
	row := sort.Search(len(starts), func(i int) bool { return starts[i] > off }) - 1
	if row < 0 {
		row = 0
	}
	return Point{Row: uint32(row), Column: off - starts[row]}
}
