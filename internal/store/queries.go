package store

import (
	"database/sql"
	"fmt"

	"github.com/jward/arbor/internal/syntax"
)

// FileByPath returns the exported file at path, or nil if there is none.
func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, language, hash, byte_count, node_count, exported_at FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.ByteCount, &f.NodeCount, &f.ExportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

const nodeColumns = `id, file_id, node_id, parent_id, ordinal, depth, kind, named, is_error,
	start_byte, end_byte, start_row, start_col, end_row, end_col, child_count, text`

func scanNode(scanner interface{ Scan(...any) error }) (*Node, error) {
	n := &Node{}
	var parent sql.NullInt64
	var text sql.NullString
	err := scanner.Scan(
		&n.ID, &n.FileID, &n.NodeID, &parent, &n.Ordinal, &n.Depth, &n.Kind, &n.Named, &n.IsError,
		&n.StartByte, &n.EndByte, &n.StartRow, &n.StartCol, &n.EndRow, &n.EndCol, &n.ChildCount, &text,
	)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		n.ParentID = &parent.Int64
	}
	if text.Valid {
		n.Text = &text.String
	}
	return n, nil
}

func (s *Store) queryNodes(query string, args ...any) ([]*Node, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// NodesByFile returns every node of a file in pre-order.
func (s *Store) NodesByFile(fileID int64) ([]*Node, error) {
	nodes, err := s.queryNodes("SELECT "+nodeColumns+" FROM nodes WHERE file_id = ? ORDER BY id", fileID)
	if err != nil {
		return nil, fmt.Errorf("nodes by file: %w", err)
	}
	return nodes, nil
}

// NodeByID returns the node with the given path identity, or nil.
func (s *Store) NodeByID(fileID int64, id syntax.ID) (*Node, error) {
	n, err := scanNode(s.db.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE file_id = ? AND node_id = ?", fileID, string(id)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("node by id: %w", err)
	}
	return n, nil
}

// ChildrenOf returns the children of the node with row id parentID in
// source order.
func (s *Store) ChildrenOf(parentID int64) ([]*Node, error) {
	nodes, err := s.queryNodes("SELECT "+nodeColumns+" FROM nodes WHERE parent_id = ? ORDER BY ordinal", parentID)
	if err != nil {
		return nil, fmt.Errorf("children of: %w", err)
	}
	return nodes, nil
}

// KindCounts returns how often each kind occurs in a file, most frequent
// first.
func (s *Store) KindCounts(fileID int64) ([]KindCount, error) {
	rows, err := s.db.Query(
		"SELECT kind, COUNT(*) AS n FROM nodes WHERE file_id = ? GROUP BY kind ORDER BY n DESC, kind", fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("kind counts: %w", err)
	}
	defer rows.Close()

	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("kind counts: %w", err)
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}
