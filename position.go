package arbor

import "github.com/jward/arbor/internal/syntax"

// Flatten returns the visible nodes of t in display order: pre-order,
// children in source order, descendants of folded nodes omitted.
func Flatten(t syntax.Tree, collapsed *CollapsedSet) []syntax.Visit {
	var out []syntax.Visit
	syntax.Walk(t, func(v syntax.Visit) syntax.Action {
		out = append(out, v)
		if collapsed.Contains(v.ID) {
			return syntax.SkipChildren
		}
		return syntax.Continue
	})
	return out
}

// Position returns the row of id in the display order. It reports false when
// id is hidden under a folded ancestor or does not exist in t.
func Position(t syntax.Tree, collapsed *CollapsedSet, id syntax.ID) (int, bool) {
	pos, found := 0, false
	syntax.Walk(t, func(v syntax.Visit) syntax.Action {
		if v.ID == id {
			found = true
			return syntax.Stop
		}
		pos++
		if collapsed.Contains(v.ID) {
			return syntax.SkipChildren
		}
		return syntax.Continue
	})
	if !found {
		return -1, false
	}
	return pos, true
}

// VisibleCount returns the number of rows in the display order.
func VisibleCount(t syntax.Tree, collapsed *CollapsedSet) int {
	n := 0
	syntax.Walk(t, func(v syntax.Visit) syntax.Action {
		n++
		if collapsed.Contains(v.ID) {
			return syntax.SkipChildren
		}
		return syntax.Continue
	})
	return n
}

// hiddenBy returns the shallowest folded strict ancestor of p, if any.
func hiddenBy(p syntax.Path, collapsed *CollapsedSet) (syntax.Path, bool) {
	for d := 0; d < len(p); d++ {
		anc := p[:d]
		if collapsed.Contains(anc.ID()) {
			return append(syntax.Path{}, anc...), true
		}
	}
	return nil, false
}
