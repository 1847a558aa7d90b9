package grammar

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"unicode"

	sitter "github.com/malivvan/tree-sitter"

	"github.com/jward/arbor/internal/syntax"
)

// wazeroBackend implements Backend with malivvan/tree-sitter, which runs
// tree-sitter compiled to WASM inside wazero. It needs no CGO but only ships
// the C and C++ grammars, and its nodes expose neither points nor parent
// links, so every parse is materialized into a syntax.StaticTree.
type wazeroBackend struct {
	mu        sync.RWMutex
	ctx       context.Context
	ts        sitter.TreeSitter
	closed    bool
	languages map[Language]sitter.Language
}

// NewWazeroBackend starts the WASM runtime and loads its grammars.
func NewWazeroBackend(ctx context.Context) (Backend, error) {
	ts, err := sitter.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing tree-sitter wazero runtime: %w", err)
	}

	b := &wazeroBackend{
		ctx:       ctx,
		ts:        ts,
		languages: make(map[Language]sitter.Language),
	}
	if lang, err := ts.LanguageC(ctx); err == nil {
		b.languages[C] = lang
	}
	if lang, err := ts.LanguageCpp(ctx); err == nil {
		b.languages[Cpp] = lang
	}
	return b, nil
}

func (b *wazeroBackend) Name() string { return string(BackendWazero) }

func (b *wazeroBackend) SupportedLanguages() []Language {
	b.mu.RLock()
	defer b.mu.RUnlock()
	langs := make([]Language, 0, len(b.languages))
	for lang := range b.languages {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

func (b *wazeroBackend) SupportsLanguage(lang Language) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.languages[lang]
	return ok
}

func (b *wazeroBackend) NewParser(lang Language) (Parser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBackendClosed{Backend: b.Name()}
	}

	grammar, ok := b.languages[lang]
	if !ok {
		return nil, ErrLanguageNotSupported{Language: lang, Backend: b.Name()}
	}

	parser, err := b.ts.NewParser(b.ctx)
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	if err := parser.SetLanguage(b.ctx, grammar); err != nil {
		_ = parser.Close(b.ctx)
		return nil, fmt.Errorf("setting language %s: %w", lang, err)
	}
	return &wazeroParser{ctx: b.ctx, parser: parser, lang: lang}, nil
}

func (b *wazeroBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

type wazeroParser struct {
	mu     sync.Mutex
	ctx    context.Context
	parser sitter.Parser
	lang   Language
	closed bool
}

func (p *wazeroParser) Language() Language { return p.lang }

func (p *wazeroParser) Parse(ctx context.Context, source []byte) (syntax.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrParserClosed{}
	}

	tree, err := p.parser.ParseString(ctx, string(source))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.lang, err)
	}
	root, err := tree.RootNode(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTree, err)
	}

	static, err := materialize(ctx, root)
	if err != nil {
		return nil, err
	}
	return syntax.NewStaticTree(string(p.lang), source, static), nil
}

func (p *wazeroParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.parser.Close(p.ctx)
}

// materialize copies a WASM-side tree into StaticNodes. Every accessor is a
// call into the WASM module, so the copy is made once per parse.
func materialize(ctx context.Context, root sitter.Node) (*syntax.StaticNode, error) {
	type entry struct {
		src sitter.Node
		dst *syntax.StaticNode
	}

	out, err := copyNode(ctx, root)
	if err != nil {
		return nil, err
	}
	out.Named = true

	stack := []entry{{src: root, dst: out}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count, err := top.src.ChildCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading child count: %w", err)
		}
		named, err := top.src.NamedChildCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading named child count: %w", err)
		}

		n := int(count)
		top.dst.Children = make([]*syntax.StaticNode, n)
		for i := 0; i < n; i++ {
			child, err := top.src.Child(ctx, uint64(i))
			if err != nil {
				return nil, fmt.Errorf("reading child %d: %w", i, err)
			}
			c, err := copyNode(ctx, child)
			if err != nil {
				return nil, err
			}
			switch {
			case int(named) == n:
				c.Named = true
			case named == 0:
				c.Named = false
			default:
				c.Named = c.Error || looksNamed(c.Kind)
			}
			top.dst.Children[i] = c
			stack = append(stack, entry{src: child, dst: c})
		}
	}
	return out, nil
}

func copyNode(ctx context.Context, n sitter.Node) (*syntax.StaticNode, error) {
	kind, err := n.Kind(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading node kind: %w", err)
	}
	start, err := n.StartByte(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading start byte: %w", err)
	}
	end, err := n.EndByte(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading end byte: %w", err)
	}
	isErr, err := n.IsError(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading error flag: %w", err)
	}
	return &syntax.StaticNode{
		Kind:  kind,
		Start: uint32(start),
		End:   uint32(end),
		Error: isErr,
	}, nil
}

// looksNamed guesses whether kind is a named grammar rule. The WASM binding
// has no ts_node_is_named, and anonymous nodes are mostly punctuation.
func looksNamed(kind string) bool {
	if kind == "" {
		return false
	}
	for _, r := range kind {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
