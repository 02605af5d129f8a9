package view

import (
	"strings"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// Visibility is the match state of every node and edge. Nodes are keyed by
// id and edges by their index key. Nodes outside the active level are
// present with false.
type Visibility struct {
	Nodes map[string]bool `json:"nodes"`
	Edges map[string]bool `json:"edges"`
}

// NodeMatches reports whether id matches. Unknown ids do not.
func (v *Visibility) NodeMatches(id string) bool { return v.Nodes[id] }

// EdgeMatches reports whether the edge with the given key matches.
func (v *Visibility) EdgeMatches(key string) bool { return v.Edges[key] }

// Visibility returns the memoised visibility, computing it if a mutation
// dropped it.
func (e *Engine) Visibility() *Visibility {
	if e.visibility == nil {
		e.visibility = e.ComputeVisibility()
	}
	return e.visibility
}

// Recompute recomputes and stores the visibility.
func (e *Engine) Recompute() *Visibility {
	e.visibility = e.ComputeVisibility()
	return e.visibility
}

// ComputeVisibility derives visibility from the current state without
// touching the memo.
func (e *Engine) ComputeVisibility() *Visibility {
	v := &Visibility{
		Nodes: make(map[string]bool, len(e.topo.Nodes)),
		Edges: make(map[string]bool, len(e.topo.Edges)),
	}
	term := strings.ToLower(strings.TrimSpace(e.state.SearchTerm))
	f := e.state.Filters

	for _, n := range e.topo.Nodes {
		if !e.IsNodeInActiveLevel(n) {
			v.Nodes[n.ID] = false
			continue
		}
		matches := searchMatches(n, term) &&
			(!active(f.Type) || n.Type == f.Type) &&
			(!active(f.Tag) || n.HasTag(f.Tag))
		v.Nodes[n.ID] = matches
	}
	for _, ke := range e.index.Edges() {
		v.Edges[ke.Key] = e.IsEdgeInActiveLevel(ke.Edge) &&
			(!active(f.Intent) || ke.Edge.Intent == f.Intent)
	}
	return v
}

func searchMatches(n *topology.Node, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range [...]string{n.Label, n.Summary, n.Group} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func levelOf(n *topology.Node) topology.Level {
	if n.Level == "" {
		return topology.LevelHigh
	}
	return n.Level
}

// IsNodeInActiveLevel reports whether n belongs to the active level and
// matches the drilldown focus.
func (e *Engine) IsNodeInActiveLevel(n *topology.Node) bool {
	if n == nil {
		return false
	}
	return levelOf(n) == e.state.ActiveLevel && e.MatchesDrilldown(n)
}

// MatchesDrilldown reports whether n lies inside the drilldown focus.
func (e *Engine) MatchesDrilldown(n *topology.Node) bool {
	if n == nil {
		return false
	}
	d := e.state.Drilldown
	switch levelOf(n) {
	case topology.LevelMedium:
		return d.Medium == "" || n.Parent == d.Medium
	case topology.LevelLow:
		if d.Low != "" {
			return n.Parent == d.Low
		}
		if d.Medium != "" {
			if n.Parent == d.Medium {
				return true
			}
			parent := e.index.Node(n.Parent)
			return parent != nil && parent.Parent == d.Medium
		}
		return true
	default:
		return true
	}
}

// IsEdgeInActiveLevel reports whether both endpoints exist and are
// level-active and, for an edge with an explicit level, that it equals the
// active level.
func (e *Engine) IsEdgeInActiveLevel(edge *topology.Edge) bool {
	if edge == nil {
		return false
	}
	from, to := e.index.Node(edge.From), e.index.Node(edge.To)
	if from == nil || to == nil {
		return false
	}
	if edge.Level != "" && edge.Level != e.state.ActiveLevel {
		return false
	}
	return e.IsNodeInActiveLevel(from) && e.IsNodeInActiveLevel(to)
}

// Connections returns the ids joined to selected or hovered by a matching
// edge, plus those ids themselves. Empty ids are ignored.
func (e *Engine) Connections(selected, hovered string) map[string]bool {
	set := make(map[string]bool)
	if selected == "" && hovered == "" {
		return set
	}
	vis := e.Visibility()
	for _, ke := range e.index.Edges() {
		if !vis.Edges[ke.Key] {
			continue
		}
		if touches(ke.Edge, selected) || touches(ke.Edge, hovered) {
			set[ke.Edge.From] = true
			set[ke.Edge.To] = true
		}
	}
	if selected != "" {
		set[selected] = true
	}
	if hovered != "" {
		set[hovered] = true
	}
	return set
}

func touches(edge *topology.Edge, id string) bool {
	return id != "" && (edge.From == id || edge.To == id)
}

// VisibleNodes returns the level-active nodes in document order.
func (e *Engine) VisibleNodes() []*topology.Node {
	var out []*topology.Node
	for _, n := range e.topo.Nodes {
		if e.IsNodeInActiveLevel(n) {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns the level-active edges in document order.
func (e *Engine) VisibleEdges() []topology.KeyedEdge {
	var out []topology.KeyedEdge
	for _, ke := range e.index.Edges() {
		if e.IsEdgeInActiveLevel(ke.Edge) {
			out = append(out, ke)
		}
	}
	return out
}
