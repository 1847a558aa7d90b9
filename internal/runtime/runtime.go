// Package runtime hosts Risor scripts that drive an explorer session
// headlessly through host functions.
package runtime

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/log"
)

// Runtime embeds a Risor VM and exposes a Session to scripts.
type Runtime struct {
	session    *arbor.Session
	scriptsDir string
	fsys       fs.FS
	out        io.Writer
	log        *slog.Logger
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS configures the Runtime to load scripts from an fs.FS
// instead of from disk. Also configures the Risor importer to use
// FSImporter for import statement resolution.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithOutput sets where echo writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) RuntimeOption {
	return func(r *Runtime) {
		r.out = w
	}
}

// WithLogger sets the logger behind the log global.
func WithLogger(l *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.log = l
	}
}

// NewRuntime creates a Runtime bound to a session and a scripts directory.
// The session may be nil, in which case only log and echo are available.
func NewRuntime(s *arbor.Session, scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		session:    s,
		scriptsDir: scriptsDir,
		out:        os.Stdout,
		log:        log.Component("script"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript loads and executes a Risor script with all standard globals
// plus any extra globals provided by the caller.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, extraGlobals map[string]any) error {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	return r.eval(ctx, src, scriptPath, extraGlobals)
}

// RunSource executes Risor source code directly with all standard globals
// plus any extra globals.
func (r *Runtime) RunSource(ctx context.Context, source string, extraGlobals map[string]any) error {
	return r.eval(ctx, source, "<inline>", extraGlobals)
}

func (r *Runtime) eval(ctx context.Context, source, label string, extraGlobals map[string]any) error {
	globals := r.buildGlobals(extraGlobals)

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	r.log.Debug("running script", "script", label)
	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return fmt.Errorf("runtime: script %s: %w", label, err)
	}
	return nil
}

// buildImporter returns a Risor importer configured for the Runtime's script source.
// Returns nil if neither fs.FS nor scriptsDir is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	if r.fsys != nil {
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	}
	if r.scriptsDir != "" {
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	}
	return nil
}

// LoadScript reads a .risor file and returns its source code.
// When an fs.FS is configured, uses fs.ReadFile on the embedded filesystem.
// Otherwise, uses os.ReadFile with scriptsDir as the base directory.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", fmt.Errorf("runtime: loading script %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("runtime: loading script %s: %w", fullPath, err)
	}
	return string(data), nil
}

// BuiltinScriptPath returns the file name of an embedded script.
func BuiltinScriptPath(name string) string {
	if strings.HasSuffix(name, ".risor") {
		return name
	}
	return name + ".risor"
}

// buildGlobals constructs the full set of globals exposed to Risor scripts.
func (r *Runtime) buildGlobals(extra map[string]any) map[string]any {
	globals := map[string]any{
		"log":  mustProxy(&logObject{log: r.log}),
		"echo": makeEchoFn(r.out),
	}

	if s := r.session; s != nil {
		// Commands
		globals["move_down"] = makeCommandFn("move_down", s, s.MoveDown)
		globals["move_up"] = makeCommandFn("move_up", s, s.MoveUp)
		globals["move_left"] = makeCommandFn("move_left", s, s.MoveLeft)
		globals["move_right"] = makeCommandFn("move_right", s, s.MoveRight)
		globals["toggle_fold"] = makeCommandFn("toggle_fold", s, s.ToggleFold)
		globals["toggle_select"] = makeCommandFn("toggle_select", s, s.ToggleSelect)
		globals["scroll_up"] = makeCommandFn("scroll_up", s, s.ScrollUp)
		globals["scroll_down"] = makeCommandFn("scroll_down", s, s.ScrollDown)
		globals["expand_all"] = makeCommandFn("expand_all", s, s.ExpandAll)
		globals["collapse_all"] = makeCommandFn("collapse_all", s, s.CollapseAll)
		globals["collapse_kind"] = makeCollapseKindFn(s)
		globals["jump"] = makeJumpFn(s)

		// State
		globals["cursor"] = makeCursorFn(s)
		globals["selection"] = makeSelectionFn(s)
		globals["position"] = makePositionFn(s)
		globals["follow"] = makeFollowFn(s)
		globals["offset"] = makeOffsetFn(s)
		globals["rows"] = makeRowsFn(s)
		globals["details"] = makeDetailsFn(s)
		globals["source"] = makeSourceFn(s)
		globals["stats"] = makeStatsFn(s)
		globals["query"] = makeQueryFn(s)
	}

	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy error: %v", err))
	}
	return p
}
