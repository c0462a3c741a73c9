package lineage

import "time"

// NodeType classifies what kind of entity a graph node represents.
type NodeType string

// Node types. The set is closed; there is no user-defined kind.
const (
	NodeDataset        NodeType = "dataset"
	NodeTransformation NodeType = "transformation"
	NodeModel          NodeType = "model"
	NodeArtifact       NodeType = "artifact"
	NodeExternal       NodeType = "external"
)

// EdgeType classifies the provenance relationship an edge encodes.
type EdgeType string

// Edge types. Direction encodes data flow or dependency; traversal
// semantics (upstream follows reverse edges, downstream forward edges)
// apply uniformly regardless of the specific type.
const (
	EdgeDerivedFrom EdgeType = "derived_from"
	EdgeProducedBy  EdgeType = "produced_by"
	EdgeUsedBy      EdgeType = "used_by"
	EdgeInputTo     EdgeType = "input_to"
)

// Node is a single entity in the lineage graph. ID is the graph's primary
// key; Name is a display label and is not required to be unique. Metadata
// is an open bag of descriptive data (storage location, schema, tags).
type Node struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Type      NodeType       `json:"node_type" yaml:"node_type"`
	Metadata  map[string]any `json:"metadata" yaml:"metadata"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// Edge is a directed arc from SourceID to TargetID. Endpoints are not
// required to reference registered nodes; an edge may be declared before
// either endpoint exists.
type Edge struct {
	SourceID string         `json:"source_id" yaml:"source_id"`
	TargetID string         `json:"target_id" yaml:"target_id"`
	Type     EdgeType       `json:"edge_type" yaml:"edge_type"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// Export is the lossless serialized form of a graph, suitable for
// persistence or transport. An equivalent graph can be reconstructed from
// an Export alone.
type Export struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// NewNode constructs a node with CreatedAt set to now. A nil metadata map
// is replaced with an empty one so callers can always range over it.
func NewNode(id, name string, typ NodeType, metadata map[string]any) *Node {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Node{
		ID:        id,
		Name:      name,
		Type:      typ,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}
