package syntax

import "fmt"

// Handle refers to a node inside a specific tree. It holds the shared tree
// and the node's path, never the node itself; Node resolves it on demand in
// O(depth). The zero Handle refers to nothing and must not be resolved.
type Handle struct {
	tree Tree
	path Path
}

// RootHandle returns a handle to the root of t.
func RootHandle(t Tree) Handle {
	return Handle{tree: t, path: Path{}}
}

// HandleAt returns a handle to the node at p, or false when p does not
// address a node of t.
func HandleAt(t Tree, p Path) (Handle, bool) {
	h := Handle{tree: t, path: append(Path{}, p...)}
	if _, ok := h.Lookup(); !ok {
		return Handle{}, false
	}
	return h, true
}

// Tree returns the tree the handle points into.
func (h Handle) Tree() Tree { return h.tree }

// Path returns a copy of the handle's path.
func (h Handle) Path() Path { return append(Path{}, h.path...) }

// ID returns the identity of the addressed node.
func (h Handle) ID() ID { return h.path.ID() }

// Depth returns the depth of the addressed node; the root is at depth 0.
func (h Handle) Depth() int { return len(h.path) }

// IsRoot reports whether h addresses the root.
func (h Handle) IsRoot() bool { return len(h.path) == 0 }

// Equal reports whether h and o address the same node of the same tree.
func (h Handle) Equal(o Handle) bool {
	return h.tree == o.tree && h.path.Equal(o.path)
}

// Lookup resolves the handle, reporting false when the path leaves the tree.
func (h Handle) Lookup() (Node, bool) {
	if h.tree == nil {
		return nil, false
	}
	n := h.tree.RootNode()
	if n == nil {
		return nil, false
	}
	for _, i := range h.path {
		if i < 0 || i >= n.ChildCount() {
			return nil, false
		}
		n = n.Child(i)
		if n == nil {
			return nil, false
		}
	}
	return n, true
}

// Node resolves the handle. Handles derived by navigating from a live root
// always resolve; a failure means the tree was mutated or the handle was
// forged, and panics.
func (h Handle) Node() Node {
	n, ok := h.Lookup()
	if !ok {
		panic(fmt.Sprintf("syntax: handle %s does not resolve in its tree", h.ID()))
	}
	return n
}

// ChildCount returns the number of children of the addressed node.
func (h Handle) ChildCount() int { return h.Node().ChildCount() }

// Parent returns a handle to the structural parent. False iff h is the root.
func (h Handle) Parent() (Handle, bool) {
	p, ok := h.path.Parent()
	if !ok {
		return Handle{}, false
	}
	return Handle{tree: h.tree, path: p}, true
}

// Child returns a handle to the i-th child, or false if i is out of range.
func (h Handle) Child(i int) (Handle, bool) {
	if i < 0 || i >= h.Node().ChildCount() {
		return Handle{}, false
	}
	return Handle{tree: h.tree, path: h.path.Child(i)}, true
}

// PrevSibling returns a handle to the previous sibling. False at the first
// child of its parent and at the root.
func (h Handle) PrevSibling() (Handle, bool) {
	i := h.path.Index()
	if i <= 0 {
		return Handle{}, false
	}
	return Handle{tree: h.tree, path: h.path.WithIndex(i - 1)}, true
}

// NextSibling returns a handle to the next sibling. False at the last child
// of its parent and at the root.
func (h Handle) NextSibling() (Handle, bool) {
	parent, ok := h.Parent()
	if !ok {
		return Handle{}, false
	}
	i := h.path.Index()
	if i+1 >= parent.Node().ChildCount() {
		return Handle{}, false
	}
	return Handle{tree: h.tree, path: h.path.WithIndex(i + 1)}, true
}

// Ancestors returns handles to every ancestor of h, root first.
func (h Handle) Ancestors() []Handle {
	out := make([]Handle, 0, len(h.path))
	for d := 0; d < len(h.path); d++ {
		out = append(out, Handle{tree: h.tree, path: append(Path{}, h.path[:d]...)})
	}
	return out
}

// Text returns the source text spanned by the addressed node.
func (h Handle) Text() string {
	return Text(h.tree, h.Node())
}

func (h Handle) String() string {
	if h.tree == nil {
		return "<nil handle>"
	}
	return string(h.ID())
}
