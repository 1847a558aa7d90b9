// Package arbor is an interactive explorer for tree-sitter concrete syntax
// trees. It walks a parsed file node by node, folds and unfolds subtrees,
// and keeps the focused node inside a scrolled viewport.
//
// # Model
//
// A [Session] owns the state of one run over an immutable [Tree]: the
// cursor, an optional selection, a [CollapsedSet] of folded nodes and a
// [Viewport]. Nodes are addressed by [Path], the child indices leading from
// the root; a path's [ID] is its identity for the lifetime of the tree.
//
// The display order is the pre-order walk of the tree that skips the
// descendants of folded nodes. [Flatten] returns it, [Position] maps an ID to
// its row, and [Renderer] turns it into [Row] records for a presentation
// layer.
//
// # Usage
//
//	s, err := arbor.Open(ctx, "main.go")
//	if err != nil { ... }
//	defer s.Close()
//
//	s.Apply(arbor.MoveDown)
//	s.Apply(arbor.ToggleFold)
//	s.Follow(termHeight)
//	frame := s.Window(termHeight)
//
// # Commands
//
// [Session.Apply] accepts each [Command] of the state machine: MoveDown,
// MoveUp, MoveLeft, MoveRight, ToggleFold, ToggleSelect, ScrollUp,
// ScrollDown, ExpandAll, CollapseAll and Quit. Every command is total; when
// it cannot apply it leaves the state unchanged.
//
// Folding never strands the cursor. ToggleFold only hides the cursor's own
// descendants, CollapseAll moves the cursor to the folded ancestor that would
// hide it, and [Session.JumpTo] unfolds whatever hides its target.
package arbor
