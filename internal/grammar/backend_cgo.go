//go:build cgo

package grammar

import (
	"context"
	"fmt"
	"slices"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/dockerfile"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/protobuf"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/jward/arbor/internal/syntax"
)

// Grammars are built lazily on first use.
var (
	cgoGrammars     map[Language]*sitter.Language
	cgoGrammarsOnce sync.Once
)

func initCGOGrammars() {
	cgoGrammarsOnce.Do(func() {
		cgoGrammars = map[Language]*sitter.Language{
			Bash:       bash.GetLanguage(),
			C:          c.GetLanguage(),
			Cpp:        cpp.GetLanguage(),
			CSS:        css.GetLanguage(),
			Dockerfile: dockerfile.GetLanguage(),
			Go:         golang.GetLanguage(),
			HCL:        hcl.GetLanguage(),
			HTML:       html.GetLanguage(),
			Java:       java.GetLanguage(),
			JavaScript: javascript.GetLanguage(),
			Lua:        lua.GetLanguage(),
			PHP:        php.GetLanguage(),
			Protobuf:   protobuf.GetLanguage(),
			Python:     python.GetLanguage(),
			Ruby:       ruby.GetLanguage(),
			Rust:       rust.GetLanguage(),
			TOML:       toml.GetLanguage(),
			TSX:        tsx.GetLanguage(),
			TypeScript: typescript.GetLanguage(),
			YAML:       yaml.GetLanguage(),
		}
	})
}

// cgoBackend implements Backend on top of smacker/go-tree-sitter.
type cgoBackend struct {
	mu     sync.RWMutex
	closed bool
}

// NewCGOBackend creates the CGO-based backend.
func NewCGOBackend() (Backend, error) {
	initCGOGrammars()
	return &cgoBackend{}, nil
}

func (b *cgoBackend) Name() string { return string(BackendCGO) }

func (b *cgoBackend) SupportedLanguages() []Language {
	langs := make([]Language, 0, len(cgoGrammars))
	for lang := range cgoGrammars {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

func (b *cgoBackend) SupportsLanguage(lang Language) bool {
	_, ok := cgoGrammars[lang]
	return ok
}

func (b *cgoBackend) NewParser(lang Language) (Parser, error) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return nil, ErrBackendClosed{Backend: b.Name()}
	}

	grammar, ok := cgoGrammars[lang]
	if !ok {
		return nil, ErrLanguageNotSupported{Language: lang, Backend: b.Name()}
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	return &cgoParser{parser: parser, lang: lang, grammar: grammar}, nil
}

func (b *cgoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

type cgoParser struct {
	mu      sync.Mutex
	parser  *sitter.Parser
	lang    Language
	grammar *sitter.Language
	closed  bool
}

func (p *cgoParser) Language() Language { return p.lang }

func (p *cgoParser) Parse(ctx context.Context, source []byte) (syntax.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrParserClosed{}
	}

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.lang, err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, ErrNoTree
	}
	return &cgoTree{tree: tree, source: source, lang: p.lang, grammar: p.grammar}, nil
}

func (p *cgoParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.parser.Close()
	return nil
}

// cgoTree implements syntax.Tree and Querier.
type cgoTree struct {
	tree    *sitter.Tree
	source  []byte
	lang    Language
	grammar *sitter.Language
}

func (t *cgoTree) RootNode() syntax.Node {
	root := t.tree.RootNode()
	if root == nil {
		return nil
	}
	return cgoNode{n: root}
}

func (t *cgoTree) Source() []byte   { return t.source }
func (t *cgoTree) Language() string { return string(t.lang) }

func (t *cgoTree) Close() error {
	t.tree.Close()
	return nil
}

// Query runs a tree-sitter query over the whole tree. Each match becomes
// one slice of captures, each addressed by its path from the root.
func (t *cgoTree) Query(pattern string) ([][]QueryCapture, error) {
	q, err := sitter.NewQuery([]byte(pattern), t.grammar)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	defer q.Close()

	root := t.tree.RootNode()
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, root)

	var matches [][]QueryCapture
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, t.source)
		if len(match.Captures) == 0 {
			continue
		}

		captures := make([]QueryCapture, 0, len(match.Captures))
		for _, capture := range match.Captures {
			path, ok := pathOf(root, capture.Node)
			if !ok {
				continue
			}
			captures = append(captures, QueryCapture{
				Name: q.CaptureNameForId(capture.Index),
				Path: path,
			})
		}
		matches = append(matches, captures)
	}
	return matches, nil
}

// pathOf locates target below root by descending only into children whose
// range covers it. Nodes are compared by identity, so a wrapper sharing the
// target's range and kind is not mistaken for it.
func pathOf(root, target *sitter.Node) (syntax.Path, bool) {
	type entry struct {
		n    *sitter.Node
		path syntax.Path
	}
	start, end := target.StartByte(), target.EndByte()

	stack := []entry{{n: root, path: syntax.Path{}}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.n.Equal(target) {
			return top.path, true
		}
		for i := int(top.n.ChildCount()) - 1; i >= 0; i-- {
			child := top.n.Child(i)
			if child == nil || child.StartByte() > start || child.EndByte() < end {
				continue
			}
			stack = append(stack, entry{n: child, path: top.path.Child(i)})
		}
	}
	return nil, false
}

// cgoNode adapts *sitter.Node to syntax.Node.
type cgoNode struct {
	n *sitter.Node
}

func (n cgoNode) Type() string      { return n.n.Type() }
func (n cgoNode) StartByte() uint32 { return n.n.StartByte() }
func (n cgoNode) EndByte() uint32   { return n.n.EndByte() }
func (n cgoNode) ChildCount() int   { return int(n.n.ChildCount()) }
func (n cgoNode) IsNamed() bool     { return n.n.IsNamed() }
func (n cgoNode) IsError() bool     { return n.n.IsError() }
func (n cgoNode) IsMissing() bool   { return n.n.IsMissing() }

func (n cgoNode) StartPoint() syntax.Point {
	p := n.n.StartPoint()
	return syntax.Point{Row: p.Row, Column: p.Column}
}

func (n cgoNode) EndPoint() syntax.Point {
	p := n.n.EndPoint()
	return syntax.Point{Row: p.Row, Column: p.Column}
}

func (n cgoNode) Child(i int) syntax.Node {
	if i < 0 || i >= int(n.n.ChildCount()) {
		return nil
	}
	child := n.n.Child(i)
	if child == nil {
		return nil
	}
	return cgoNode{n: child}
}
