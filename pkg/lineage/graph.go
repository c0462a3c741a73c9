package lineage

import (
	"sort"
	"sync"
)

// Graph is a thread-safe directed graph over lineage nodes and edges.
//
// Nodes live in a flat table keyed by ID; edges are kept both as a flat
// list and as forward/reverse adjacency lists of IDs, so cycles are
// representable and traversal never chases object pointers. Mutations are
// serialized by a single lock; reads take the shared side of the lock and
// never mutate state.
//
// The graph enforces no acyclicity invariant and no referential integrity
// at edge insertion: an edge may point at an ID with no registered node.
// Traversal treats such IDs as dead ends.
type Graph struct {
	mu       sync.RWMutex
	nodes    map[string]*Node
	edges    []*Edge
	children map[string][]string // source -> targets (forward)
	parents  map[string][]string // target -> sources (reverse)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddNode inserts or replaces the node keyed by its ID. Re-adding an
// existing ID overwrites the prior node (last write wins, no versioning).
// Panics on a nil node; that is a programmer error, not a data condition.
func (g *Graph) AddNode(node *Node) {
	if node == nil {
		panic("lineage: AddNode called with nil node")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[node.ID] = node
}

// AddEdge inserts the edge and links the adjacency lists. Neither endpoint
// needs to exist as a registered node.
func (g *Graph) AddEdge(edge *Edge) {
	if edge == nil {
		panic("lineage: AddEdge called with nil edge")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges = append(g.edges, edge)
	g.children[edge.SourceID] = append(g.children[edge.SourceID], edge.TargetID)
	g.parents[edge.TargetID] = append(g.parents[edge.TargetID], edge.SourceID)
}

// GetNode returns the node registered under id. Missing nodes are an
// expected outcome, signalled by the second return value.
func (g *Graph) GetNode(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, ok := g.nodes[id]
	return node, ok
}

// Parents returns the IDs with an edge pointing at id (direct upstream).
func (g *Graph) Parents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.parents[id]...)
}

// Children returns the IDs that id has an edge pointing at (direct downstream).
func (g *Graph) Children(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.children[id]...)
}

// Upstream returns every distinct registered node reachable from id by
// walking reverse edges, in depth-first discovery order. maxDepth bounds
// the walk to that many hops; zero or negative means unbounded. Unknown
// IDs yield nil.
func (g *Graph) Upstream(id string, maxDepth int) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.walk(id, maxDepth, g.parents)
}

// Downstream is symmetric to Upstream, following forward edges.
func (g *Graph) Downstream(id string, maxDepth int) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.walk(id, maxDepth, g.children)
}

// walk is a cycle-safe DFS from start along adj, collecting each reachable
// registered node once. The starting node itself is not collected.
//
// Depth bounding uses the minimum depth at which a node is reachable, not
// the first-discovered depth: a node already seen via a longer path is
// revisited when a shorter path to it turns up, so the bounded result set
// grows monotonically with maxDepth. IDs with no registered node are dead
// ends and are neither collected nor expanded.
func (g *Graph) walk(start string, maxDepth int, adj map[string][]string) []*Node {
	if _, ok := g.nodes[start]; !ok {
		return nil
	}

	best := map[string]int{start: 0} // minimum known depth per visited ID
	var order []string

	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		for _, next := range adj[id] {
			nd := depth + 1
			if maxDepth > 0 && nd > maxDepth {
				continue
			}
			if _, registered := g.nodes[next]; !registered {
				continue
			}
			if prev, seen := best[next]; seen {
				if prev <= nd {
					continue
				}
				// Shorter path found; re-expand so nodes beyond it
				// come within the depth bound too.
				best[next] = nd
				visit(next, nd)
				continue
			}
			best[next] = nd
			order = append(order, next)
			visit(next, nd)
		}
	}
	visit(start, 0)

	result := make([]*Node, 0, len(order))
	for _, id := range order {
		result = append(result, g.nodes[id])
	}
	return result
}

// Path returns any path (not necessarily shortest) from fromID to toID
// along forward edges, inclusive of both endpoints, found by depth-first
// search. It returns nil when no path exists or when either ID is
// unregistered. Path(x, x) returns the single-element path [x] for a
// registered x, without requiring a self-loop.
func (g *Graph) Path(fromID, toID string) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	from, ok := g.nodes[fromID]
	if !ok {
		return nil
	}
	if _, ok := g.nodes[toID]; !ok {
		return nil
	}
	if fromID == toID {
		return []*Node{from}
	}

	visited := map[string]bool{fromID: true}
	var dfs func(id string) []string
	dfs = func(id string) []string {
		for _, next := range g.children[id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			if next == toID {
				return []string{next}
			}
			if _, registered := g.nodes[next]; !registered {
				continue
			}
			if tail := dfs(next); tail != nil {
				return append([]string{next}, tail...)
			}
		}
		return nil
	}

	tail := dfs(fromID)
	if tail == nil {
		return nil
	}

	path := make([]*Node, 0, len(tail)+1)
	path = append(path, from)
	for _, id := range tail {
		path = append(path, g.nodes[id])
	}
	return path
}

// Export serializes the full graph state into a plain value suitable for
// persistence or transport. Nodes are sorted by ID for deterministic
// output; edges keep insertion order. No attribute is lost: an equivalent
// graph can be rebuilt from the export alone (see Restore).
func (g *Graph) Export() *Export {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := &Export{
		Nodes: make([]Node, 0, len(g.nodes)),
		Edges: make([]Edge, 0, len(g.edges)),
	}
	for _, node := range g.nodes {
		out.Nodes = append(out.Nodes, *node)
	}
	sort.Slice(out.Nodes, func(i, j int) bool {
		return out.Nodes[i].ID < out.Nodes[j].ID
	})
	for _, edge := range g.edges {
		out.Edges = append(out.Edges, *edge)
	}
	return out
}

// Restore builds a new graph equivalent to the given export.
func Restore(export *Export) *Graph {
	g := NewGraph()
	if export == nil {
		return g
	}
	for i := range export.Nodes {
		node := export.Nodes[i]
		g.AddNode(&node)
	}
	for i := range export.Edges {
		edge := export.Edges[i]
		g.AddEdge(&edge)
	}
	return g
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Nodes returns all registered nodes sorted by ID for deterministic output.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}
