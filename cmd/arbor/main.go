// Command arbor explores tree-sitter concrete syntax trees.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/config"
	"github.com/jward/arbor/internal/grammar"
	"github.com/jward/arbor/internal/log"
)

// Version is set via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code. Every failure is
// printed once as "Error: <message>".
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// app carries global flag values, the loaded configuration and the process
// streams through every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	flags struct {
		backend    string
		configPath string
		verbosity  int
		logFormat  string
		logFile    string
	}
	cfg     config.Config
	logFile *os.File
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "arbor <file>",
		Short: "Explore the concrete syntax tree of a source file",
		Long: `Arbor parses a source file with tree-sitter and opens an interactive
tree explorer. Subcommands render, export and script the same explorer
without a terminal.`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExplore(cmd.Context(), args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.backend, "backend", "", "tree-sitter backend: auto, cgo, wazero (default from $"+grammar.EnvVarBackend+" or config)")
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	pf.IntVarP(&a.flags.verbosity, "verbosity", "v", log.VerbosityWarn, "verbosity level (0=error, 1=warn, 2=info, 3=debug, 4=trace)")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text, json (default from config)")
	pf.StringVar(&a.flags.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(newDumpCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newScriptCmd(a))
	root.AddCommand(newLanguagesCmd(a))
	return root
}

// setup loads the configuration and initializes logging. Flags override the
// config file.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.flags.configPath != "" {
		a.cfg, err = config.LoadFrom(a.flags.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	format := a.cfg.Log.Format
	if a.flags.logFormat != "" {
		format = a.flags.logFormat
	}
	switch format {
	case "", "text", "json":
	default:
		return fmt.Errorf("--log-format: must be text or json, got %q", format)
	}

	logPath := a.cfg.Log.File
	if a.flags.logFile != "" {
		logPath = a.flags.logFile
	}

	var out io.Writer = a.stderr
	switch {
	case logPath != "":
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		out = f
	case cmd.Name() == "arbor" && cmd.Flags().NArg() > 0:
		// The explorer owns the terminal.
		out = io.Discard
	}
	log.Init(log.Options{Verbosity: a.flags.verbosity, Format: format, Output: out})
	log.Debug("config loaded", "path", a.flags.configPath, "verbosity", log.Verbosity(), "backend", a.cfg.Parser.Backend)
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// backendType resolves the backend: --backend, then the environment, then
// the config file.
func (a *app) backendType() (grammar.BackendType, error) {
	if a.flags.backend != "" {
		return grammar.ParseBackendType(a.flags.backend)
	}
	fallback, err := grammar.ParseBackendType(a.cfg.Parser.Backend)
	if err != nil {
		return "", fmt.Errorf("parser.backend: %w", err)
	}
	return grammar.BackendFromEnv(fallback)
}

// open starts a session on path with the configured options.
func (a *app) open(ctx context.Context, path string, extra ...arbor.Option) (*arbor.Session, error) {
	typ, err := a.backendType()
	if err != nil {
		return nil, err
	}
	opts := []arbor.Option{
		arbor.WithBackend(typ),
		arbor.WithReservedRows(a.cfg.UI.ReservedRows),
		arbor.WithTextBudget(a.cfg.UI.TextBudget),
	}
	s, err := arbor.Open(ctx, path, append(opts, extra...)...)
	if err != nil {
		return nil, describeOpenError(err)
	}
	return s, nil
}

// describeOpenError adds a hint to detection failures.
func describeOpenError(err error) error {
	if errors.Is(err, arbor.ErrLanguageNotDetected) {
		return fmt.Errorf("%w; run 'arbor languages' to list supported files", err)
	}
	return err
}
