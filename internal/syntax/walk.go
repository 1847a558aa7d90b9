package syntax

// Action tells Walk how to proceed after visiting a node.
type Action int

const (
	// Continue descends into the node's children.
	Continue Action = iota
	// SkipChildren moves on to the node's next sibling.
	SkipChildren
	// Stop ends the walk.
	Stop
)

// Visit describes one node reached by Walk.
type Visit struct {
	Node  Node
	Path  Path
	ID    ID
	Depth int
}

type frame struct {
	node Node
	path Path
	id   ID
}

// Walk traverses t in pre-order, children in source order, calling fn once
// per reached node. It uses an explicit stack, so arbitrarily deep trees do
// not grow the goroutine stack.
func Walk(t Tree, fn func(v Visit) Action) {
	root := t.RootNode()
	if root == nil {
		return
	}
	WalkFrom(root, Path{}, fn)
}

// WalkFrom is Walk starting at an arbitrary node whose path is start.
// Visit.Depth and Visit.Path stay relative to the tree root.
func WalkFrom(start Node, startPath Path, fn func(v Visit) Action) {
	stack := []frame{{node: start, path: startPath, id: startPath.ID()}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch fn(Visit{Node: top.node, Path: top.path, ID: top.id, Depth: len(top.path)}) {
		case Stop:
			return
		case SkipChildren:
			continue
		}

		// Push in reverse so the first child is popped next.
		for i := top.node.ChildCount() - 1; i >= 0; i-- {
			child := top.node.Child(i)
			if child == nil {
				continue
			}
			stack = append(stack, frame{
				node: child,
				path: top.path.Child(i),
				id:   childID(top.id, i),
			})
		}
	}
}

// Count returns the number of nodes in t.
func Count(t Tree) int {
	n := 0
	Walk(t, func(Visit) Action {
		n++
		return Continue
	})
	return n
}
