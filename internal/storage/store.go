package storage

import (
	"context"
	"errors"
	"time"

	"javagraph/internal/graph"
)

// ErrNoSnapshot is returned when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no graph snapshot stored")

// RunInfo describes the indexing pass that produced a snapshot.
type RunInfo struct {
	Root        string
	FilesSeen   int
	FilesParsed int
	FilesFailed int
}

// Run is a recorded snapshot.
type Run struct {
	ID string
	RunInfo
	Nodes     int
	Edges     int
	CreatedAt time.Time
}

// Store persists graph snapshots.
type Store interface {
	GraphStore
	Close() error
}

// GraphStore defines operations for persisting the knowledge graph.
type GraphStore interface {
	// SaveGraph replaces the stored snapshot with g and records the run.
	SaveGraph(ctx context.Context, g *graph.Graph, info RunInfo) (*Run, error)

	// LoadGraph returns the stored snapshot in its original insertion order.
	LoadGraph(ctx context.Context) (*graph.Graph, error)

	// LatestRun returns the run that produced the stored snapshot.
	LatestRun(ctx context.Context) (*Run, error)

	// GetNode retrieves a node by kind and id.
	GetNode(ctx context.Context, kind graph.NodeKind, id string) (*graph.Node, error)

	// FindNodesByFile retrieves the file node and the types declared in a file.
	FindNodesByFile(ctx context.Context, path string) ([]*graph.Node, error)
}
