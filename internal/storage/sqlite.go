package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"javagraph/internal/graph"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			seq INTEGER PRIMARY KEY,
			namespace TEXT NOT NULL,
			id TEXT NOT NULL,
			kind TEXT NOT NULL,
			name TEXT,
			file TEXT,
			attrs JSON,
			UNIQUE (namespace, id)
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			seq INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			kind TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT,
			files_seen INTEGER,
			files_parsed INTEGER,
			files_failed INTEGER,
			nodes INTEGER,
			edges INTEGER,
			created_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_id ON nodes(id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveGraph replaces nodes and edges in one transaction. Edges are stored as
// given, duplicates included.
func (s *SQLiteStore) SaveGraph(ctx context.Context, g *graph.Graph, info RunInfo) (*Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM edges", "DELETE FROM nodes"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	// 1. Save Nodes
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (seq, namespace, id, kind, name, file, attrs)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(namespace, id) DO NOTHING
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, n := range g.Nodes {
		attrs, err := n.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode node %s: %w", n.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, i, string(graph.NamespaceOf(n.Kind)), n.ID, string(n.Kind), n.Name, nodeFile(n), string(attrs)); err != nil {
			return nil, err
		}
	}

	// 2. Save Edges
	edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (seq, source, target, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer edgeStmt.Close()

	for i, e := range g.Edges {
		if _, err := edgeStmt.ExecContext(ctx, i, e.Source, e.Target, string(e.Kind)); err != nil {
			return nil, err
		}
	}

	// 3. Record the run
	run := &Run{
		ID:        uuid.NewString(),
		RunInfo:   info,
		Nodes:     len(g.Nodes),
		Edges:     len(g.Edges),
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, files_seen, files_parsed, files_failed, nodes, edges, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Root, run.FilesSeen, run.FilesParsed, run.FilesFailed, run.Nodes, run.Edges, run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	g := graph.NewGraph()

	// 1. Load Nodes
	rows, err := s.db.QueryContext(ctx, "SELECT attrs FROM nodes ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	// 2. Load Edges
	edgeRows, err := s.db.QueryContext(ctx, "SELECT source, target, kind FROM edges ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var edge graph.Edge
		var kind string
		if err := edgeRows.Scan(&edge.Source, &edge.Target, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edge.Kind = graph.EdgeKind(kind)
		g.Edges = append(g.Edges, edge)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}

	return g, nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, root, files_seen, files_parsed, files_failed, nodes, edges, created_at
		FROM runs ORDER BY rowid DESC LIMIT 1
	`)

	var run Run
	var created string
	err := row.Scan(&run.ID, &run.Root, &run.FilesSeen, &run.FilesParsed, &run.FilesFailed, &run.Nodes, &run.Edges, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("failed to parse run time: %w", err)
	}
	return &run, nil
}

func (s *SQLiteStore) GetNode(ctx context.Context, kind graph.NodeKind, id string) (*graph.Node, error) {
	row := s.db.QueryRowContext(ctx, "SELECT attrs FROM nodes WHERE namespace = ? AND id = ?", string(graph.NamespaceOf(kind)), id)
	return scanNode(row)
}

func (s *SQLiteStore) FindNodesByFile(ctx context.Context, path string) ([]*graph.Node, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT attrs FROM nodes WHERE file = ? ORDER BY seq", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*graph.Node, error) {
	var attrs string
	if err := row.Scan(&attrs); err != nil {
		return nil, err
	}
	var n graph.Node
	if err := n.UnmarshalJSON([]byte(attrs)); err != nil {
		return nil, fmt.Errorf("failed to decode node: %w", err)
	}
	return &n, nil
}

// nodeFile is the source file a node is recorded against, if any.
func nodeFile(n *graph.Node) string {
	if n.Kind == graph.KindFile {
		return n.Path
	}
	return n.File
}
