package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is the canonical identity of a node within its tree: "/" for the root,
// "/0/2" for the third child of the root's first child.
type ID string

// RootID is the identity of every tree's root node.
const RootID ID = "/"

// Path is the sequence of child indices from the root to a node. A Path is
// immutable: every method that derives a new path returns a fresh slice.
type Path []int

// Depth returns the number of edges between the root and the node.
func (p Path) Depth() int { return len(p) }

// IsRoot reports whether p addresses the root node.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Child returns the path of the i-th child of the node at p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns the path of the parent node. The second result is false
// for the root.
func (p Path) Parent() (Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	out := make(Path, len(p)-1)
	copy(out, p[:len(p)-1])
	return out, true
}

// Index returns the node's position among its siblings, or -1 for the root.
func (p Path) Index() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// WithIndex returns the path of the sibling at index i.
func (p Path) WithIndex(i int) Path {
	out := make(Path, len(p))
	copy(out, p)
	out[len(p)-1] = i
	return out
}

// Equal reports whether p and q address the same node.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is p itself or one of its ancestors.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	return p[:len(q)].Equal(q)
}

// ID renders the canonical identity of the node at p.
func (p Path) ID() ID {
	if len(p) == 0 {
		return RootID
	}
	var sb strings.Builder
	for _, i := range p {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(i))
	}
	return ID(sb.String())
}

// childID derives a child's identity from its parent's without rebuilding
// the whole string.
func childID(parent ID, i int) ID {
	if parent == RootID {
		return ID("/" + strconv.Itoa(i))
	}
	return ID(string(parent) + "/" + strconv.Itoa(i))
}

// ParseID converts an identity string back into a Path.
func ParseID(id ID) (Path, error) {
	s := string(id)
	if s == string(RootID) {
		return Path{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("syntax: invalid node id %q: must start with /", s)
	}
	parts := strings.Split(s[1:], "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("syntax: invalid node id %q: segment %q is not a child index", s, part)
		}
		p[i] = n
	}
	return p, nil
}
