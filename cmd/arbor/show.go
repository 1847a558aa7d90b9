package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/config"
	"github.com/jward/arbor/internal/store"
	"github.com/jward/arbor/internal/syntax"
)

type showFlags struct {
	db    string
	all   bool
	kinds bool
}

func newShowCmd(a *app) *cobra.Command {
	var f showFlags
	cmd := &cobra.Command{
		Use:   "show <file> [id]",
		Short: "Print an exported tree from the database without reparsing",
		Long: `Show reads a file previously written by 'arbor export' and prints the
node with the given id (default the root) followed by its children. --all
prints every node in display order; --kinds prints how often each kind occurs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := syntax.RootID
			if len(args) == 2 {
				id = syntax.ID(args[1])
			}
			return a.runShow(args[0], id, f)
		},
	}
	cmd.Flags().StringVar(&f.db, "db", "", "database path (default from config, else "+config.DefaultDBPath()+")")
	cmd.Flags().BoolVar(&f.all, "all", false, "print every exported node")
	cmd.Flags().BoolVar(&f.kinds, "kinds", false, "print node counts per kind")
	return cmd
}

func (a *app) runShow(path string, id syntax.ID, f showFlags) error {
	if f.all && f.kinds {
		return errors.New("--all and --kinds are mutually exclusive")
	}
	if _, err := syntax.ParseID(id); err != nil {
		return err
	}

	dbPath := a.dbPath(f.db)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no database at %s; run 'arbor export' first", dbPath)
	}
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	file, err := st.FileByPath(abs)
	if err != nil {
		return err
	}
	if file == nil {
		msg := fmt.Sprintf("%s has not been exported to %s", path, dbPath)
		if last, ok, err := st.Metadata("last_export"); err == nil && ok {
			msg += " (last export: " + last + ")"
		}
		return errors.New(msg)
	}

	switch {
	case f.kinds:
		counts, err := st.KindCounts(file.ID)
		if err != nil {
			return err
		}
		for _, kc := range counts {
			fmt.Fprintf(a.stdout, "%6d  %s\n", kc.Count, kc.Kind)
		}
		return nil
	case f.all:
		nodes, err := st.NodesByFile(file.ID)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			writeNode(a.stdout, n, n.Depth)
		}
		return nil
	}

	n, err := st.NodeByID(file.ID, id)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("no node %s in export of %s", id, path)
	}
	children, err := st.ChildrenOf(n.ID)
	if err != nil {
		return err
	}
	writeNode(a.stdout, n, 0)
	for _, c := range children {
		writeNode(a.stdout, c, 1)
	}
	return nil
}

// writeNode prints one exported node in the dump layout, prefixed by its id.
func writeNode(w io.Writer, n *store.Node, indent int) {
	span := arbor.Span{
		Start: syntax.Point{Row: uint32(n.StartRow), Column: uint32(n.StartCol)},
		End:   syntax.Point{Row: uint32(n.EndRow), Column: uint32(n.EndCol)},
	}
	line := fmt.Sprintf("%s%s %s %s %d", strings.Repeat("  ", indent), n.NodeID, n.Kind, span, n.ChildCount)
	if n.Text != nil {
		line += " " + arbor.LeafText(*n.Text, arbor.DefaultTextBudget)
	}
	fmt.Fprintln(w, line)
}
