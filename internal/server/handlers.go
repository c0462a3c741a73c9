package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leaplineage/pkg/lineage"
)

// nodesResponse wraps a traversal result.
type nodesResponse struct {
	NodeID string          `json:"node_id"`
	Count  int             `json:"count"`
	Nodes  []*lineage.Node `json:"nodes"`
}

// pathResponse wraps a path query result.
type pathResponse struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Found bool            `json:"found"`
	Path  []*lineage.Node `json:"path"`
}

// registerDatasetRequest is the POST /api/datasets payload.
type registerDatasetRequest struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Location string         `json:"location"`
	Metadata map[string]any `json:"metadata"`
}

// registerTransformationRequest is the POST /api/transformations payload.
type registerTransformationRequest struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Inputs   []string       `json:"inputs"`
	Outputs  []string       `json:"outputs"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, ok := s.Tracker().Graph().GetNode(id)
	if !ok {
		writeError(w, http.StatusNotFound, "node not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleUpstream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	nodes := s.Tracker().Graph().Upstream(id, depthParam(r))
	writeNodes(w, id, nodes)
}

func (s *Server) handleDownstream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	nodes := s.Tracker().Graph().Downstream(id, depthParam(r))
	writeNodes(w, id, nodes)
}

func (s *Server) handleOrigin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeNodes(w, id, s.Tracker().Origin(id))
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, s.Tracker().AnalyzeChange(id))
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}
	path := s.Tracker().Graph().Path(from, to)
	if path == nil {
		path = []*lineage.Node{}
	}
	writeJSON(w, http.StatusOK, pathResponse{
		From:  from,
		To:    to,
		Found: len(path) > 0,
		Path:  path,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Tracker().Graph().Export())
}

func (s *Server) handleRegisterDataset(w http.ResponseWriter, r *http.Request) {
	var req registerDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	node := s.Tracker().RegisterDataset(req.ID, req.Name, req.Location, req.Metadata)
	writeJSON(w, http.StatusCreated, node)
}

func (s *Server) handleRegisterTransformation(w http.ResponseWriter, r *http.Request) {
	var req registerTransformationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	node := s.Tracker().RegisterTransformation(req.ID, req.Name, req.Inputs, req.Outputs, req.Metadata)
	writeJSON(w, http.StatusCreated, node)
}

// depthParam parses the depth query parameter; absent or invalid values
// mean unbounded.
func depthParam(r *http.Request) int {
	raw := r.URL.Query().Get("depth")
	if raw == "" {
		return 0
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 0 {
		return 0
	}
	return depth
}

func writeNodes(w http.ResponseWriter, id string, nodes []*lineage.Node) {
	if nodes == nil {
		nodes = []*lineage.Node{}
	}
	writeJSON(w, http.StatusOK, nodesResponse{NodeID: id, Count: len(nodes), Nodes: nodes})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
