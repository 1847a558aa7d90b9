package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/arbor/internal/config"
	"github.com/jward/arbor/internal/log"
	"github.com/jward/arbor/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a file's syntax tree to a SQLite database",
		Long: `Export parses a file and stores every node, in display order, in the
files and nodes tables of a SQLite database. Exporting the same path again
replaces its rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd, args[0], dbPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default from config, else "+config.DefaultDBPath()+")")
	return cmd
}

// dbPath resolves the export database: --db, then the config, then the
// default data directory.
func (a *app) dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	if a.cfg.Export.DB != "" {
		return a.cfg.Export.DB
	}
	return config.DefaultDBPath()
}

func (a *app) runExport(cmd *cobra.Command, path, dbPath string) error {
	dbPath = a.dbPath(dbPath)

	s, err := a.open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		return err
	}

	start := time.Now()
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	f, err := st.Export(abs, string(s.Language()), s.Tree(), start)
	if err != nil {
		return err
	}
	log.Info("exported", "path", abs, "db", dbPath, "nodes", f.NodeCount, "duration", time.Since(start))
	fmt.Fprintf(a.stdout, "exported %d nodes from %s to %s\n", f.NodeCount, path, dbPath)
	return nil
}
