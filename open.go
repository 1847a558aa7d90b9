package arbor

import (
	"context"
	"fmt"
	"os"

	"github.com/jward/arbor/internal/grammar"
)

// Open reads path, detects its grammar, parses it, and starts a session on
// the result. Failures wrap ErrUnreadable, ErrLanguageNotDetected or
// ErrParse.
func Open(ctx context.Context, path string, opts ...Option) (*Session, error) {
	o := newOptions(opts)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	lang := o.language
	if lang == "" {
		lang, err = grammar.Detect(path)
		if err != nil {
			return nil, err
		}
	}

	s, err := OpenSource(ctx, lang, src, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	s.path = path
	o.logger.Info("opened", "path", path, "language", lang, "backend", s.backend.Name(), "bytes", len(src))
	return s, nil
}

// OpenSource parses src as lang and starts a session on the result.
func OpenSource(ctx context.Context, lang grammar.Language, src []byte, opts ...Option) (*Session, error) {
	o := newOptions(opts)

	b, err := grammar.ForLanguage(ctx, o.backend, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	tree, err := grammar.ParseSource(ctx, b, lang, src)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if tree == nil || tree.RootNode() == nil {
		_ = b.Close()
		return nil, fmt.Errorf("%w: %w", ErrParse, grammar.ErrNoTree)
	}

	s := NewSession(tree, opts...)
	s.backend = b
	return s, nil
}
