package store

import "time"

type File struct {
	ID         int64
	Path       string
	Language   string
	Hash       string
	ByteCount  int
	NodeCount  int
	ExportedAt time.Time
}

// Node is one exported syntax node. NodeID is the node's path identity in
// its tree; ParentID is the row id of the parent, nil for the root.
type Node struct {
	ID         int64
	FileID     int64
	NodeID     string
	ParentID   *int64
	Ordinal    int
	Depth      int
	Kind       string
	Named      bool
	IsError    bool
	StartByte  int
	EndByte    int
	StartRow   int
	StartCol   int
	EndRow     int
	EndCol     int
	ChildCount int

	// Text is the source of a leaf; nil for nodes with children.
	Text *string
}

type KindCount struct {
	Kind  string
	Count int
}
