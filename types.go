package arbor

import (
	"github.com/jward/arbor/internal/grammar"
	"github.com/jward/arbor/internal/syntax"
)

// Public aliases for the internal tree and grammar types that appear in the
// Session API.

type Tree = syntax.Tree
type Node = syntax.Node
type Handle = syntax.Handle
type Path = syntax.Path
type ID = syntax.ID
type Point = syntax.Point
type Language = grammar.Language
type BackendType = grammar.BackendType
