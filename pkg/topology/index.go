package topology

import "fmt"

// Index is a read-only lookup structure over a normalized topology.
//
// It is built in one O(N+E) pass and never updated incrementally; build a
// new one after loading another document. Lookups for unknown ids return nil
// or empty slices.
type Index struct {
	nodes    map[string]*Node
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
	children map[string][]*Node
	edgeKeys map[*Edge]string
	edges    []KeyedEdge
}

// KeyedEdge pairs an edge with its stable key.
type KeyedEdge struct {
	Key  string
	Edge *Edge
}

// NewIndex builds the lookup structure for t.
func NewIndex(t *Topology) *Index {
	idx := &Index{
		nodes:    make(map[string]*Node, len(t.Nodes)),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
		children: make(map[string][]*Node),
		edgeKeys: make(map[*Edge]string, len(t.Edges)),
		edges:    make([]KeyedEdge, 0, len(t.Edges)),
	}
	for _, n := range t.Nodes {
		if _, dup := idx.nodes[n.ID]; !dup {
			idx.nodes[n.ID] = n
		}
	}
	for _, n := range t.Nodes {
		if n.Parent != "" {
			idx.children[n.Parent] = append(idx.children[n.Parent], n)
		}
	}

	used := make(map[string]bool, len(t.Edges))
	for i, e := range t.Edges {
		idx.outgoing[e.From] = append(idx.outgoing[e.From], e)
		idx.incoming[e.To] = append(idx.incoming[e.To], e)

		key := e.ID
		if key == "" || used[key] {
			key = EdgeKey(e, i)
		}
		for used[key] {
			key = fmt.Sprintf("%s#%d", key, i)
		}
		used[key] = true
		idx.edgeKeys[e] = key
		idx.edges = append(idx.edges, KeyedEdge{Key: key, Edge: e})
	}
	return idx
}

// EdgeKey returns the default key of the edge at position index:
// "from__to__index".
func EdgeKey(e *Edge, index int) string {
	return fmt.Sprintf("%s__%s__%d", e.From, e.To, index)
}

// Node returns the node with the given id, or nil.
func (x *Index) Node(id string) *Node {
	return x.nodes[id]
}

// Has reports whether a node with the given id exists.
func (x *Index) Has(id string) bool {
	_, ok := x.nodes[id]
	return ok
}

// Outgoing returns the edges leaving id, in document order.
func (x *Index) Outgoing(id string) []*Edge {
	return x.outgoing[id]
}

// Incoming returns the edges entering id, in document order.
func (x *Index) Incoming(id string) []*Edge {
	return x.incoming[id]
}

// ChildrenOf returns the nodes whose parent is id, in document order.
func (x *Index) ChildrenOf(id string) []*Node {
	return x.children[id]
}

// Key returns the key assigned to e, or "" if e is not part of the indexed
// topology.
func (x *Index) Key(e *Edge) string {
	return x.edgeKeys[e]
}

// Edges returns every edge with its key, in document order.
func (x *Index) Edges() []KeyedEdge {
	return x.edges
}

// Ancestors returns the parent chain of id, nearest first.
func (x *Index) Ancestors(id string) []*Node {
	var out []*Node
	seen := map[string]bool{id: true}
	for n := x.Node(id); n != nil && n.Parent != ""; {
		p := x.Node(n.Parent)
		if p == nil || seen[p.ID] {
			break
		}
		seen[p.ID] = true
		out = append(out, p)
		n = p
	}
	return out
}
