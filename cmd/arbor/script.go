package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/arbor/internal/runtime"
	"github.com/jward/arbor/scripts"
)

func newScriptCmd(a *app) *cobra.Command {
	var builtin string
	cmd := &cobra.Command{
		Use:   "script <file> [script.risor]",
		Short: "Drive the explorer over a file with a Risor script",
		Long: `Script opens a file in a headless explorer session and runs a Risor script
against it. The script moves the cursor, folds and selects nodes through
host functions (move_down, toggle_fold, rows, details, ...) and prints
with echo. --builtin runs one of the scripts shipped with arbor.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var script string
			if len(args) == 2 {
				script = args[1]
			}
			return a.runScript(cmd, args[0], script, builtin)
		},
	}
	cmd.Flags().StringVar(&builtin, "builtin", "", "run an embedded script (errors, kinds, outline)")
	return cmd
}

func (a *app) runScript(cmd *cobra.Command, path, script, builtin string) error {
	switch {
	case script == "" && builtin == "":
		return errors.New("a script path or --builtin is required")
	case script != "" && builtin != "":
		return errors.New("a script path and --builtin are mutually exclusive")
	}

	s, err := a.open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := []runtime.RuntimeOption{runtime.WithOutput(a.stdout)}
	var scriptsDir string
	if builtin != "" {
		opts = append(opts, runtime.WithRuntimeFS(scripts.FS))
		script = runtime.BuiltinScriptPath(builtin)
	} else {
		scriptsDir = filepath.Dir(script)
		script = filepath.Base(script)
	}

	rt := runtime.NewRuntime(s, scriptsDir, opts...)
	return rt.RunScript(cmd.Context(), script, map[string]any{
		"file_path": path,
		"language":  string(s.Language()),
	})
}
