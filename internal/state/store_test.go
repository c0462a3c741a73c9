package state

import (
	"testing"
	"time"

	"github.com/leapstack-labs/leaplineage/pkg/lineage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testExport() *lineage.Export {
	tracker := lineage.NewTracker()
	tracker.RegisterDataset("raw_orders", "Raw Orders", "s3://bucket/orders.csv",
		map[string]any{"owner": "data-eng"})
	tracker.RegisterDataset("clean_orders_ds", "Clean Orders", "s3://bucket/clean.parquet", nil)
	tracker.RegisterTransformation("clean_orders", "Clean Orders Job",
		[]string{"raw_orders"}, []string{"clean_orders_ds"}, nil)
	return tracker.Graph().Export()
}

func TestStore_SaveAndLoadSnapshot(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.SaveSnapshot("nightly", testExport())
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, "nightly", snap.Label)

	loaded, err := s.LoadSnapshot(snap.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 3)
	require.Len(t, loaded.Edges, 2)

	// Round trip preserves metadata and typing
	byID := map[string]lineage.Node{}
	for _, n := range loaded.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, "data-eng", byID["raw_orders"].Metadata["owner"])
	assert.Equal(t, "s3://bucket/orders.csv", byID["raw_orders"].Metadata["location"])
	assert.Equal(t, lineage.NodeTransformation, byID["clean_orders"].Type)
	assert.Equal(t, lineage.EdgeInputTo, loaded.Edges[0].Type)
	assert.False(t, byID["raw_orders"].CreatedAt.IsZero())
}

func TestStore_LoadSnapshot_Unknown(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadSnapshot("no-such-snapshot")
	assert.Error(t, err)
}

func TestStore_LatestSnapshot(t *testing.T) {
	s := openTestStore(t)

	// Empty store: no snapshot, no error
	snap, err := s.LatestSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap)

	first, err := s.SaveSnapshot("first", testExport())
	require.NoError(t, err)
	second, err := s.SaveSnapshot("second", testExport())
	require.NoError(t, err)

	latest, err := s.LatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)

	snaps, err := s.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, second.ID, snaps[0].ID)
	assert.Equal(t, first.ID, snaps[1].ID)
}

// Timestamps landing in the same second must still order correctly:
// created_at is compared as TEXT by SQLite, so the encoding has to keep
// a fixed-width fractional second.
func TestStore_LatestSnapshot_SubsecondOrdering(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 30, 10, 0, 5, 0, time.UTC)
	older := base.Add(500 * time.Millisecond)
	newer := base.Add(510 * time.Millisecond)

	// Insert directly so both rows share the same whole second.
	for _, row := range []struct {
		id string
		at time.Time
	}{
		{"older", older},
		{"newer", newer},
	} {
		_, err := s.db.Exec(
			`INSERT INTO snapshots (id, label, created_at) VALUES (?, ?, ?)`,
			row.id, row.id, row.at.Format(timeLayout),
		)
		require.NoError(t, err)
	}

	latest, err := s.LatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "newer", latest.ID)
	assert.True(t, latest.CreatedAt.Equal(newer))

	snaps, err := s.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "newer", snaps[0].ID)
	assert.Equal(t, "older", snaps[1].ID)
}

func TestStore_RestoreGraph(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.SaveSnapshot("", testExport())
	require.NoError(t, err)

	g, err := s.RestoreGraph(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	// Adjacency rebuilt from the edge list
	down := g.Downstream("raw_orders", 0)
	require.Len(t, down, 2)
}

func TestStore_RestoreLatest_Empty(t *testing.T) {
	s := openTestStore(t)

	g, snap, err := s.RestoreLatest()
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, 0, g.NodeCount())
}

func TestStore_NotOpened(t *testing.T) {
	s := NewStore()
	_, err := s.SaveSnapshot("x", testExport())
	assert.Error(t, err)
	_, err = s.LatestSnapshot()
	assert.Error(t, err)
}
