package grammar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jward/arbor/internal/syntax"
)

// Backend abstracts the tree-sitter implementation so the CGO bindings and
// the CGO-free WASM runtime can be used interchangeably.
type Backend interface {
	// Name returns the backend identifier ("cgo" or "wazero").
	Name() string

	// SupportedLanguages lists the grammars NewParser accepts.
	SupportedLanguages() []Language

	SupportsLanguage(lang Language) bool

	// NewParser creates a parser configured for lang.
	NewParser(lang Language) (Parser, error)

	// Close releases the backend. Trees already parsed stay usable.
	Close() error
}

// Parser turns source text into a syntax tree.
type Parser interface {
	Language() Language

	// Parse returns the tree for source. It fails if the grammar produced
	// no tree at all; trees containing error nodes are still returned.
	Parse(ctx context.Context, source []byte) (syntax.Tree, error)

	Close() error
}

// QueryCapture is one captured node of a tree-sitter query match.
type QueryCapture struct {
	Name string
	Path syntax.Path
}

// Querier is implemented by trees that can run tree-sitter queries.
type Querier interface {
	Query(pattern string) ([][]QueryCapture, error)
}

// ErrNoTree is returned when a parse yields no tree or a tree without a root.
var ErrNoTree = errors.New("parser returned no tree")

// ErrLanguageNotSupported is returned when a backend has no grammar for the
// requested language.
type ErrLanguageNotSupported struct {
	Language Language
	Backend  string
}

func (e ErrLanguageNotSupported) Error() string {
	return fmt.Sprintf("language %s is not supported by the %s backend", e.Language, e.Backend)
}

// ErrBackendClosed is returned when a backend is used after Close.
type ErrBackendClosed struct {
	Backend string
}

func (e ErrBackendClosed) Error() string {
	return fmt.Sprintf("%s backend is closed", e.Backend)
}

// ErrParserClosed is returned when a parser is used after Close.
type ErrParserClosed struct{}

func (e ErrParserClosed) Error() string {
	return "parser is closed"
}

// BackendType identifies a backend implementation.
type BackendType string

const (
	// BackendAuto prefers cgo and falls back to wazero.
	BackendAuto BackendType = "auto"
	// BackendCGO uses smacker/go-tree-sitter.
	BackendCGO BackendType = "cgo"
	// BackendWazero uses malivvan/tree-sitter, which only ships C and C++.
	BackendWazero BackendType = "wazero"
)

// EnvVarBackend selects the backend when no explicit type is configured.
const EnvVarBackend = "ARBOR_TREESITTER_BACKEND"

// ParseBackendType validates a user-supplied backend name. The empty string
// maps to BackendAuto.
func ParseBackendType(s string) (BackendType, error) {
	switch typ := BackendType(strings.ToLower(strings.TrimSpace(s))); typ {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendCGO, BackendWazero:
		return typ, nil
	default:
		return "", fmt.Errorf("unknown backend %q: must be one of auto, cgo, wazero", s)
	}
}

// BackendFromEnv resolves the backend type from ARBOR_TREESITTER_BACKEND.
// An unset or empty variable yields fallback.
func BackendFromEnv(fallback BackendType) (BackendType, error) {
	v := strings.TrimSpace(os.Getenv(EnvVarBackend))
	if v == "" {
		return fallback, nil
	}
	typ, err := ParseBackendType(v)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", EnvVarBackend, err)
	}
	return typ, nil
}

// NewBackend creates a backend of the given type. BackendAuto tries cgo
// first and falls back to wazero when the binary was built without CGO.
func NewBackend(ctx context.Context, typ BackendType) (Backend, error) {
	switch typ {
	case BackendCGO:
		return NewCGOBackend()
	case BackendWazero:
		return NewWazeroBackend(ctx)
	case BackendAuto, "":
		if b, err := NewCGOBackend(); err == nil {
			return b, nil
		}
		return NewWazeroBackend(ctx)
	default:
		return nil, fmt.Errorf("unknown backend type: %s", typ)
	}
}

// ForLanguage returns a backend able to parse lang. With BackendAuto a cgo
// backend lacking lang is replaced by wazero, so C and C++ still parse in
// CGO-free builds.
func ForLanguage(ctx context.Context, typ BackendType, lang Language) (Backend, error) {
	if typ != BackendAuto && typ != "" {
		b, err := NewBackend(ctx, typ)
		if err != nil {
			return nil, err
		}
		if !b.SupportsLanguage(lang) {
			_ = b.Close()
			return nil, ErrLanguageNotSupported{Language: lang, Backend: b.Name()}
		}
		return b, nil
	}

	if b, err := NewCGOBackend(); err == nil {
		if b.SupportsLanguage(lang) {
			return b, nil
		}
		_ = b.Close()
	}

	b, err := NewWazeroBackend(ctx)
	if err != nil {
		return nil, err
	}
	if !b.SupportsLanguage(lang) {
		_ = b.Close()
		return nil, ErrLanguageNotSupported{Language: lang, Backend: b.Name()}
	}
	return b, nil
}

// ParseSource parses source as lang with a fresh parser from b.
func ParseSource(ctx context.Context, b Backend, lang Language, source []byte) (syntax.Tree, error) {
	p, err := b.NewParser(lang)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(ctx, source)
}
