package lineage

// Tracker is the registration API layered on Graph. It encodes the domain
// rule that transformations consume inputs and produce outputs: edges are
// only ever created through RegisterTransformation in normal usage.
//
// A tracker owns exactly one graph. Create one tracker per lineage scope
// (a pipeline run, a long-lived catalog) and inject it where needed; there
// is deliberately no process-wide shared instance.
type Tracker struct {
	graph *Graph
}

// NewTracker creates a tracker backed by a fresh empty graph.
func NewTracker() *Tracker {
	return &Tracker{graph: NewGraph()}
}

// NewTrackerWithGraph creates a tracker over an existing graph, e.g. one
// rebuilt from a persisted export.
func NewTrackerWithGraph(g *Graph) *Tracker {
	if g == nil {
		g = NewGraph()
	}
	return &Tracker{graph: g}
}

// Graph returns the underlying graph for direct traversal queries.
func (t *Tracker) Graph() *Graph {
	return t.graph
}

// RegisterDataset adds a dataset node, folding location into its metadata.
// Re-registering the same ID overwrites the prior node.
func (t *Tracker) RegisterDataset(id, name, location string, metadata map[string]any) *Node {
	md := cloneMetadata(metadata)
	if location != "" {
		md["location"] = location
	}
	node := NewNode(id, name, NodeDataset, md)
	t.graph.AddNode(node)
	return node
}

// RegisterTransformation adds a transformation node and wires its
// provenance edges: an input_to edge from each input to the
// transformation, and a produced_by edge from the transformation to each
// output. Inputs and outputs are node IDs; they do not need to be
// registered yet, and unregistered ones simply stay dead ends until a
// node appears under that ID.
func (t *Tracker) RegisterTransformation(id, name string, inputs, outputs []string, metadata map[string]any) *Node {
	node := NewNode(id, name, NodeTransformation, cloneMetadata(metadata))
	t.graph.AddNode(node)

	for _, input := range inputs {
		t.graph.AddEdge(&Edge{SourceID: input, TargetID: id, Type: EdgeInputTo})
	}
	for _, output := range outputs {
		t.graph.AddEdge(&Edge{SourceID: id, TargetID: output, Type: EdgeProducedBy})
	}
	return node
}

// RegisterModel adds a model node, typically the output of a training
// transformation registered separately.
func (t *Tracker) RegisterModel(id, name string, metadata map[string]any) *Node {
	node := NewNode(id, name, NodeModel, cloneMetadata(metadata))
	t.graph.AddNode(node)
	return node
}

// RegisterArtifact adds an artifact node (reports, exports, files).
func (t *Tracker) RegisterArtifact(id, name string, metadata map[string]any) *Node {
	node := NewNode(id, name, NodeArtifact, cloneMetadata(metadata))
	t.graph.AddNode(node)
	return node
}

// Origin returns the root datasets feeding the given node: upstream
// ancestors that are datasets with no further upstream of their own.
// These are the ultimate raw-data sources. Rootness counts registered
// parents only; an incoming edge from an unregistered ID is a dead end
// and does not disqualify a root. Unknown IDs yield nil.
func (t *Tracker) Origin(id string) []*Node {
	var origins []*Node
	for _, node := range t.graph.Upstream(id, 0) {
		if node.Type != NodeDataset {
			continue
		}
		if len(t.graph.Upstream(node.ID, 1)) == 0 {
			origins = append(origins, node)
		}
	}
	return origins
}

// Impact returns everything that would be affected if the given node
// changed: its full downstream set.
func (t *Tracker) Impact(id string) []*Node {
	return t.graph.Downstream(id, 0)
}

// cloneMetadata copies the caller's map so later caller mutations don't
// leak into registered nodes. nil becomes an empty map.
func cloneMetadata(metadata map[string]any) map[string]any {
	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return md
}
