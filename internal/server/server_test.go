package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaplineage/internal/testutil"
	"github.com/leapstack-labs/leaplineage/pkg/lineage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tracker := lineage.NewTracker()
	tracker.RegisterDataset("raw_orders", "Raw Orders", "s3://bucket/orders.csv", nil)
	tracker.RegisterDataset("clean_orders_ds", "Clean Orders", "s3://bucket/clean.parquet", nil)
	tracker.RegisterTransformation("clean_orders", "Clean Orders Job",
		[]string{"raw_orders"}, []string{"clean_orders_ds"}, nil)
	tracker.RegisterModel("model_v1", "Churn Model", nil)
	tracker.RegisterTransformation("train", "Train",
		[]string{"clean_orders_ds"}, []string{"model_v1"}, nil)

	return New(Config{
		Tracker: tracker,
		Logger:  testutil.NewTestLogger(t),
	})
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_GetNode(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/nodes/raw_orders/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var node lineage.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &node))
	assert.Equal(t, "raw_orders", node.ID)
	assert.Equal(t, lineage.NodeDataset, node.Type)
	assert.Equal(t, "s3://bucket/orders.csv", node.Metadata["location"])
}

func TestServer_GetNode_NotFound(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/nodes/ghost/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "node not found")
}

func TestServer_Downstream(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/nodes/raw_orders/downstream", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp nodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
}

func TestServer_Downstream_Depth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/nodes/raw_orders/downstream?depth=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp nodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Nodes, 1)
	assert.Equal(t, "clean_orders", resp.Nodes[0].ID)
}

func TestServer_Traversal_UnknownNode(t *testing.T) {
	srv := newTestServer(t)

	// Traversals on unknown IDs return empty lists, not 404s.
	rec := doRequest(t, srv, http.MethodGet, "/api/nodes/ghost/upstream", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp nodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Nodes)
}

func TestServer_Origin(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/nodes/model_v1/origin", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp nodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Nodes, 1)
	assert.Equal(t, "raw_orders", resp.Nodes[0].ID)
}

func TestServer_Impact(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/nodes/raw_orders/impact", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report lineage.ImpactReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, lineage.RiskHigh, report.RiskLevel)
	assert.Equal(t, 4, report.TotalAffected)
}

func TestServer_Path(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/path?from=raw_orders&to=model_v1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	require.NotEmpty(t, resp.Path)
	assert.Equal(t, "raw_orders", resp.Path[0].ID)
	assert.Equal(t, "model_v1", resp.Path[len(resp.Path)-1].ID)

	// No forward path the other way
	rec = doRequest(t, srv, http.MethodGet, "/api/path?from=model_v1&to=raw_orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Found)
	assert.Empty(t, resp.Path)
}

func TestServer_Path_MissingParams(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/path?from=raw_orders", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Export(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var export lineage.Export
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &export))
	assert.Len(t, export.Nodes, 5)
	assert.Len(t, export.Edges, 4)
}

func TestServer_RegisterDataset(t *testing.T) {
	srv := newTestServer(t)

	body := `{"id":"raw_events","name":"Raw Events","location":"s3://bucket/events/"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/datasets", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	node, ok := srv.Tracker().Graph().GetNode("raw_events")
	require.True(t, ok)
	assert.Equal(t, "s3://bucket/events/", node.Metadata["location"])
}

func TestServer_RegisterDataset_MissingID(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/datasets", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RegisterTransformation(t *testing.T) {
	srv := newTestServer(t)

	body := `{"id":"aggregate","inputs":["clean_orders_ds"],"outputs":["daily_summary"]}`
	rec := doRequest(t, srv, http.MethodPost, "/api/transformations", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	g := srv.Tracker().Graph()
	_, ok := g.GetNode("aggregate")
	assert.True(t, ok)
	assert.Equal(t, 6, g.EdgeCount())
}
