package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jward/arbor/internal/syntax"
)

// HashSource returns the hex xxhash64 of src.
func HashSource(src []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(src))
}

// Export writes every node of tree under path in a single transaction,
// replacing rows from an earlier export of the same path. Nodes are inserted
// in pre-order, so row ids follow the unfolded display order.
func (s *Store) Export(path, language string, tree syntax.Tree, now time.Time) (*File, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("export: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nodes WHERE file_id IN (SELECT id FROM files WHERE path = ?)", path); err != nil {
		return nil, fmt.Errorf("export: delete old nodes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return nil, fmt.Errorf("export: delete old file: %w", err)
	}

	src := tree.Source()
	f := &File{
		Path:       path,
		Language:   language,
		Hash:       HashSource(src),
		ByteCount:  len(src),
		NodeCount:  syntax.Count(tree),
		ExportedAt: now.UTC().Truncate(time.Second),
	}
	res, err := tx.Exec(
		"INSERT INTO files (path, language, hash, byte_count, node_count, exported_at) VALUES (?, ?, ?, ?, ?, ?)",
		f.Path, f.Language, f.Hash, f.ByteCount, f.NodeCount, f.ExportedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("export: insert file: %w", err)
	}
	if f.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("export: last insert id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO nodes (
		file_id, node_id, parent_id, ordinal, depth, kind, named, is_error,
		start_byte, end_byte, start_row, start_col, end_row, end_col, child_count, text
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("export: prepare: %w", err)
	}
	defer stmt.Close()

	rowIDs := make(map[syntax.ID]int64, f.NodeCount)
	var walkErr error
	syntax.Walk(tree, func(v syntax.Visit) syntax.Action {
		var parent *int64
		if pp, ok := v.Path.Parent(); ok {
			id := rowIDs[pp.ID()]
			parent = &id
		}
		n := v.Node
		var text sql.NullString
		if n.ChildCount() == 0 {
			text = sql.NullString{String: syntax.Text(tree, n), Valid: true}
		}
		sp, ep := n.StartPoint(), n.EndPoint()
		res, err := stmt.Exec(
			f.ID, string(v.ID), parent, max(v.Path.Index(), 0), v.Depth, n.Type(), n.IsNamed(), n.IsError() || n.IsMissing(),
			n.StartByte(), n.EndByte(), sp.Row, sp.Column, ep.Row, ep.Column, n.ChildCount(), text,
		)
		if err != nil {
			walkErr = fmt.Errorf("export: node %s: %w", v.ID, err)
			return syntax.Stop
		}
		if rowIDs[v.ID], err = res.LastInsertId(); err != nil {
			walkErr = fmt.Errorf("export: node %s: %w", v.ID, err)
			return syntax.Stop
		}
		return syntax.Continue
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if _, err := tx.Exec(
		"INSERT INTO metadata (key, value) VALUES ('last_export', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		path,
	); err != nil {
		return nil, fmt.Errorf("export: metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("export: commit: %w", err)
	}
	return f, nil
}
