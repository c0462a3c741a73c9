// Package state persists lineage graph snapshots to SQLite.
//
// The lineage core is purely in-memory; this package is the durable
// collaborator behind its Export surface. Each snapshot is a complete,
// lossless copy of a graph export, so restoring a snapshot yields an
// equivalent graph.
package state

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leaplineage/pkg/lineage"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is the canonical text encoding of timestamps in the store.
// The fractional second is fixed-width so that SQLite's lexicographic
// TEXT comparison in ORDER BY matches chronological order; RFC3339Nano
// trims trailing zeros and breaks that.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot describes one persisted graph export.
type Snapshot struct {
	ID        string
	Label     string
	CreatedAt time.Time
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates an unopened store instance.
func NewStore() *Store {
	return &Store{}
}

// Open opens the SQLite database at path. Use ":memory:" for an
// in-memory database.
func (s *Store) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the snapshot tables if they do not exist.
func (s *Store) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// SaveSnapshot persists a graph export under a fresh snapshot ID.
func (s *Store) SaveSnapshot(label string, export *lineage.Export) (*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if export == nil {
		return nil, fmt.Errorf("nil export")
	}

	snap := &Snapshot{
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO snapshots (id, label, created_at) VALUES (?, ?, ?)`,
		snap.ID, snap.Label, snap.CreatedAt.Format(timeLayout),
	); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for _, node := range export.Nodes {
		metadata, err := json.Marshal(node.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata for node %s: %w", node.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO snapshot_nodes (snapshot_id, node_id, name, node_type, metadata, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snap.ID, node.ID, node.Name, string(node.Type), string(metadata),
			node.CreatedAt.UTC().Format(timeLayout),
		); err != nil {
			return nil, fmt.Errorf("failed to insert node %s: %w", node.ID, err)
		}
	}

	for i, edge := range export.Edges {
		metadata, err := json.Marshal(edge.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata for edge %d: %w", i, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO snapshot_edges (snapshot_id, position, source_id, target_id, edge_type, metadata)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snap.ID, i, edge.SourceID, edge.TargetID, string(edge.Type), string(metadata),
		); err != nil {
			return nil, fmt.Errorf("failed to insert edge %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot reads the export stored under the given snapshot ID.
func (s *Store) LoadSnapshot(id string) (*lineage.Export, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up snapshot: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("snapshot not found: %s", id)
	}

	export := &lineage.Export{Nodes: []lineage.Node{}, Edges: []lineage.Edge{}}

	nodeRows, err := s.db.Query(
		`SELECT node_id, name, node_type, metadata, created_at
		 FROM snapshot_nodes WHERE snapshot_id = ? ORDER BY node_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var node lineage.Node
		var nodeType, metadata, createdAt string
		if err := nodeRows.Scan(&node.ID, &node.Name, &nodeType, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		node.Type = lineage.NodeType(nodeType)
		if err := json.Unmarshal([]byte(metadata), &node.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for node %s: %w", node.ID, err)
		}
		if node.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for node %s: %w", node.ID, err)
		}
		export.Nodes = append(export.Nodes, node)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	edgeRows, err := s.db.Query(
		`SELECT source_id, target_id, edge_type, metadata
		 FROM snapshot_edges WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var edge lineage.Edge
		var edgeType, metadata string
		if err := edgeRows.Scan(&edge.SourceID, &edge.TargetID, &edgeType, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edge.Type = lineage.EdgeType(edgeType)
		if err := json.Unmarshal([]byte(metadata), &edge.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode edge metadata: %w", err)
		}
		export.Edges = append(export.Edges, edge)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}

	return export, nil
}

// LatestSnapshot returns the most recently saved snapshot, or nil when
// the store is empty (an expected condition, not an error).
func (s *Store) LatestSnapshot() (*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var snap Snapshot
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, label, created_at FROM snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&snap.ID, &snap.Label, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	if snap.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
	}
	return &snap, nil
}

// ListSnapshots returns all snapshots, newest first.
func (s *Store) ListSnapshots() ([]Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`SELECT id, label, created_at FROM snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.Label, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if snap.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// RestoreGraph loads a snapshot and rebuilds the graph it captured.
func (s *Store) RestoreGraph(id string) (*lineage.Graph, error) {
	export, err := s.LoadSnapshot(id)
	if err != nil {
		return nil, err
	}
	return lineage.Restore(export), nil
}

// RestoreLatest rebuilds the graph from the most recent snapshot. It
// returns an empty graph when no snapshot exists yet.
func (s *Store) RestoreLatest() (*lineage.Graph, *Snapshot, error) {
	snap, err := s.LatestSnapshot()
	if err != nil {
		return nil, nil, err
	}
	if snap == nil {
		return lineage.NewGraph(), nil, nil
	}
	g, err := s.RestoreGraph(snap.ID)
	if err != nil {
		return nil, nil, err
	}
	return g, snap, nil
}
