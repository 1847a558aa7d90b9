package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/grammar"
	"github.com/jward/arbor/internal/syntax"
)

// nodeMap converts a handle into the map scripts see for a node.
//
// {id, kind, depth, start_row, start_col, end_row, end_col, child_count,
// leaf, named, text}
func nodeMap(h syntax.Handle) object.Object {
	n := h.Node()
	sp, ep := n.StartPoint(), n.EndPoint()
	return object.NewMap(map[string]object.Object{
		"id":          object.NewString(string(h.ID())),
		"kind":        object.NewString(n.Type()),
		"depth":       object.NewInt(int64(h.Depth())),
		"start_row":   object.NewInt(int64(sp.Row)),
		"start_col":   object.NewInt(int64(sp.Column)),
		"end_row":     object.NewInt(int64(ep.Row)),
		"end_col":     object.NewInt(int64(ep.Column)),
		"child_count": object.NewInt(int64(n.ChildCount())),
		"leaf":        object.NewBool(n.ChildCount() == 0),
		"named":       object.NewBool(n.IsNamed()),
		"text":        object.NewString(h.Text()),
	})
}

// rowMap converts a rendered row. text is the display form of leaf text and
// line is the full plain-text rendering.
func rowMap(row arbor.Row, isCursor, isSelected bool) object.Object {
	return object.NewMap(map[string]object.Object{
		"id":          object.NewString(string(row.ID)),
		"kind":        object.NewString(row.Kind),
		"depth":       object.NewInt(int64(row.Depth)),
		"fold":        object.NewString(row.Fold.String()),
		"start_row":   object.NewInt(int64(row.Span.Start.Row)),
		"start_col":   object.NewInt(int64(row.Span.Start.Column)),
		"end_row":     object.NewInt(int64(row.Span.End.Row)),
		"end_col":     object.NewInt(int64(row.Span.End.Column)),
		"child_count": object.NewInt(int64(row.ChildCount)),
		"leaf":        object.NewBool(row.Leaf),
		"named":       object.NewBool(row.Named),
		"text":        object.NewString(row.Text),
		"cursor":      object.NewBool(isCursor),
		"selected":    object.NewBool(isSelected),
		"line":        object.NewString(arbor.FormatRow(row, isCursor, isSelected)),
	})
}

// makeCommandFn wraps a session command. It returns the cursor node map
// after the command runs, whether or not state changed.
//
// move_down() → node
func makeCommandFn(name string, s *arbor.Session, cmd func() bool) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError(name, 0, len(args))
		}
		cmd()
		return nodeMap(s.Cursor())
	})
}

// makeCollapseKindFn creates "collapse_kind".
//
// collapse_kind(kind) → int
func makeCollapseKindFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("collapse_kind", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("collapse_kind", 1, len(args))
		}
		kind, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("collapse_kind: kind must be a string, got %s", args[0].Type())
		}
		return object.NewInt(int64(s.CollapseKind(kind.Value())))
	})
}

// makeJumpFn creates "jump". Unknown or malformed ids return false.
//
// jump(id) → bool
func makeJumpFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("jump", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("jump", 1, len(args))
		}
		id, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("jump: id must be a string, got %s", args[0].Type())
		}
		p, err := syntax.ParseID(syntax.ID(id.Value()))
		if err != nil {
			return object.NewBool(false)
		}
		return object.NewBool(s.JumpTo(p))
	})
}

// cursor() → node
func makeCursorFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("cursor", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("cursor", 0, len(args))
		}
		return nodeMap(s.Cursor())
	})
}

// selection() → node or nil
func makeSelectionFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("selection", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("selection", 0, len(args))
		}
		h, ok := s.Selection()
		if !ok {
			return object.Nil
		}
		return nodeMap(h)
	})
}

// position() → int or nil
func makePositionFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("position", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("position", 0, len(args))
		}
		pos, ok := s.Position()
		if !ok {
			return object.Nil
		}
		return object.NewInt(int64(pos))
	})
}

// follow(height) → int
func makeFollowFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("follow", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("follow", 1, len(args))
		}
		height, ok := args[0].(*object.Int)
		if !ok {
			return object.Errorf("follow: height must be an int, got %s", args[0].Type())
		}
		return object.NewInt(int64(s.Follow(int(height.Value()))))
	})
}

// offset() → int
func makeOffsetFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("offset", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("offset", 0, len(args))
		}
		return object.NewInt(int64(s.Offset()))
	})
}

// makeRowsFn creates "rows". With a height it returns only the rows shown
// at the current offset.
//
// rows() → []row
// rows(height) → []row
func makeRowsFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("rows", func(ctx context.Context, args ...object.Object) object.Object {
		var f arbor.Frame
		switch len(args) {
		case 0:
			f = s.Frame()
		case 1:
			height, ok := args[0].(*object.Int)
			if !ok {
				return object.Errorf("rows: height must be an int, got %s", args[0].Type())
			}
			f = s.Window(int(height.Value()))
		default:
			return object.Errorf("rows: expected 0 or 1 arguments, got %d", len(args))
		}

		results := make([]object.Object, 0, len(f.Rows))
		for i, row := range f.Rows {
			results = append(results, rowMap(row, i == f.Cursor, i == f.Selection))
		}
		return object.NewList(results)
	})
}

// details() → {id, kind, span, text} or nil
func makeDetailsFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("details", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("details", 0, len(args))
		}
		d, ok := s.Details()
		if !ok {
			return object.Nil
		}
		return object.NewMap(map[string]object.Object{
			"id":   object.NewString(string(d.ID)),
			"kind": object.NewString(d.Kind),
			"span": object.NewString(d.Span),
			"text": object.NewString(d.Text),
		})
	})
}

// source() → string
func makeSourceFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("source", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("source", 0, len(args))
		}
		return object.NewString(string(s.Source()))
	})
}

// stats() → {nodes, named, errors, max_depth, visible, collapsed}
func makeStatsFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("stats", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("stats", 0, len(args))
		}
		st := s.Stats()
		return object.NewMap(map[string]object.Object{
			"nodes":     object.NewInt(int64(st.Nodes)),
			"named":     object.NewInt(int64(st.Named)),
			"errors":    object.NewInt(int64(st.Errors)),
			"max_depth": object.NewInt(int64(st.MaxDepth)),
			"visible":   object.NewInt(int64(st.Visible)),
			"collapsed": object.NewInt(int64(st.Collapsed)),
		})
	})
}

// makeQueryFn creates the "query" host function. Only trees from the cgo
// backend support queries.
//
// query(pattern) → []map[string]node
//
// Each map has capture names as keys and node maps as values.
func makeQueryFn(s *arbor.Session) *object.Builtin {
	return object.NewBuiltin("query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("query", 1, len(args))
		}
		pattern, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("query: pattern must be a string, got %s", args[0].Type())
		}

		q, ok := s.Tree().(grammar.Querier)
		if !ok {
			return object.Errorf("query: %s trees do not support queries", s.Language())
		}
		matches, err := q.Query(pattern.Value())
		if err != nil {
			return object.Errorf("query: %v", err)
		}

		results := make([]object.Object, 0, len(matches))
		for _, match := range matches {
			m := make(map[string]object.Object, len(match))
			for _, capture := range match {
				h, ok := syntax.HandleAt(s.Tree(), capture.Path)
				if !ok {
					continue
				}
				m[capture.Name] = nodeMap(h)
			}
			results = append(results, object.NewMap(m))
		}
		return object.NewList(results)
	})
}

// makeEchoFn creates "echo", which writes its arguments separated by spaces
// and a trailing newline. Strings are written without quotes.
//
// echo(args...)
func makeEchoFn(w io.Writer) *object.Builtin {
	return object.NewBuiltin("echo", func(ctx context.Context, args ...object.Object) object.Object {
		parts := make([]string, len(args))
		for i, arg := range args {
			if s, ok := arg.(*object.String); ok {
				parts[i] = s.Value()
			} else {
				parts[i] = arg.Inspect()
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return object.Errorf("echo: %v", err)
		}
		return object.Nil
	})
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	log *slog.Logger
}

func (l *logObject) Info(msg string)  { l.log.Info(msg) }
func (l *logObject) Warn(msg string)  { l.log.Warn(msg) }
func (l *logObject) Error(msg string) { l.log.Error(msg) }
