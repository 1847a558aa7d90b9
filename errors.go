package arbor

import (
	"errors"

	"github.com/jward/arbor/internal/grammar"
)

// Startup error classes. Errors returned by Open wrap exactly one of these
// together with the underlying cause.
var (
	// ErrUnreadable reports that the input file could not be read.
	ErrUnreadable = errors.New("file not readable")

	// ErrLanguageNotDetected reports that no grammar matches the file name.
	ErrLanguageNotDetected = grammar.ErrLanguageNotDetected

	// ErrParse reports that the parser produced no tree.
	ErrParse = errors.New("parse failed")
)
