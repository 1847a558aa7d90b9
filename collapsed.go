package arbor

import (
	"sort"

	"github.com/jward/arbor/internal/syntax"
)

// CollapsedSet holds the identities of folded nodes. A folded node is still
// displayed; its descendants are not. The zero value is an empty set.
type CollapsedSet struct {
	ids map[syntax.ID]struct{}
}

// NewCollapsedSet returns a set containing ids.
func NewCollapsedSet(ids ...syntax.ID) *CollapsedSet {
	c := &CollapsedSet{ids: make(map[syntax.ID]struct{}, len(ids))}
	for _, id := range ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// Contains reports whether id is folded. A nil set contains nothing.
func (c *CollapsedSet) Contains(id syntax.ID) bool {
	if c == nil {
		return false
	}
	_, ok := c.ids[id]
	return ok
}

func (c *CollapsedSet) Add(id syntax.ID) {
	if c.ids == nil {
		c.ids = make(map[syntax.ID]struct{})
	}
	c.ids[id] = struct{}{}
}

func (c *CollapsedSet) Remove(id syntax.ID) {
	delete(c.ids, id)
}

// Toggle flips membership of id and reports whether it is now folded.
func (c *CollapsedSet) Toggle(id syntax.ID) bool {
	if c.Contains(id) {
		c.Remove(id)
		return false
	}
	c.Add(id)
	return true
}

// Clear unfolds everything.
func (c *CollapsedSet) Clear() {
	clear(c.ids)
}

// Len returns the number of folded nodes.
func (c *CollapsedSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// IDs returns the folded identities in lexical order.
func (c *CollapsedSet) IDs() []syntax.ID {
	if c == nil {
		return nil
	}
	out := make([]syntax.ID, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of c.
func (c *CollapsedSet) Clone() *CollapsedSet {
	out := &CollapsedSet{ids: make(map[syntax.ID]struct{}, c.Len())}
	if c != nil {
		for id := range c.ids {
			out.ids[id] = struct{}{}
		}
	}
	return out
}
