package view

import (
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// Scene is everything a presentation adapter needs to draw the current
// view: level-active nodes and edges with their styles, and the legend.
type Scene struct {
	Generation string           `json:"generation"`
	Name       string           `json:"name"`
	Level      topology.Level   `json:"level"`
	ViewModes  []topology.Level `json:"viewModes"`
	Canvas     Canvas           `json:"canvas"`
	Focus      []string         `json:"focus"`
	State      State            `json:"state"`
	Nodes      []SceneNode      `json:"nodes"`
	Edges      []SceneEdge      `json:"edges"`
	Legend     []LegendEntry    `json:"legend"`
}

// SceneNode is a drawn node.
type SceneNode struct {
	Node *topology.Node `json:"node"`
	NodeStyle
}

// NodeStyle is the highlight state of a node.
type NodeStyle struct {
	Matches   bool `json:"matches"`
	Selected  bool `json:"selected"`
	Hovered   bool `json:"hovered"`
	Connected bool `json:"connected"`
	Dimmed    bool `json:"dimmed"`
}

// SceneEdge is a drawn edge.
type SceneEdge struct {
	Key   string         `json:"key"`
	Edge  *topology.Edge `json:"edge"`
	Color string         `json:"color"`
	EdgeStyle
}

// EdgeStyle is the highlight state of an edge.
type EdgeStyle struct {
	Matches  bool `json:"matches"`
	Active   bool `json:"active"`
	Dimmed   bool `json:"dimmed"`
	Filtered bool `json:"filtered"`
}

// LegendEntry describes one intent.
type LegendEntry struct {
	Intent string `json:"intent"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// NodeStyle returns the highlight state of id given the current selection
// and hover.
func (e *Engine) NodeStyle(id string) NodeStyle {
	return e.nodeStyle(id, e.Visibility(), e.Connections(e.state.SelectedNodeID, e.state.HoverNodeID))
}

func (e *Engine) nodeStyle(id string, vis *Visibility, conn map[string]bool) NodeStyle {
	sel, hover := e.state.SelectedNodeID, e.state.HoverNodeID
	focused := sel != "" || hover != ""
	s := NodeStyle{
		Matches:   vis.Nodes[id],
		Selected:  id == sel,
		Hovered:   id == hover,
		Connected: conn[id] && id != sel && id != hover,
	}
	s.Dimmed = !s.Matches || (focused && !conn[id])
	return s
}

// EdgeStyle returns the highlight state of the edge with the given key.
func (e *Engine) EdgeStyle(key string, edge *topology.Edge) EdgeStyle {
	return e.edgeStyle(key, edge, e.Visibility())
}

func (e *Engine) edgeStyle(key string, edge *topology.Edge, vis *Visibility) EdgeStyle {
	sel, hover := e.state.SelectedNodeID, e.state.HoverNodeID
	focused := sel != "" || hover != ""
	s := EdgeStyle{
		Matches: vis.Edges[key],
		Active:  touches(edge, sel) || touches(edge, hover),
	}
	s.Dimmed = !s.Matches || (focused && !s.Active)
	s.Filtered = !s.Matches
	return s
}

// Legend returns the intent legend in table order.
func (e *Engine) Legend() []LegendEntry {
	intents := e.topo.Meta.Intents
	out := make([]LegendEntry, 0, intents.Len())
	for _, key := range intents.Keys() {
		intent, _ := intents.Get(key)
		out = append(out, LegendEntry{Intent: key, Label: intent.Label, Color: intents.Color(key)})
	}
	return out
}

// Scene assembles the current view.
func (e *Engine) Scene() *Scene {
	vis := e.Visibility()
	conn := e.Connections(e.state.SelectedNodeID, e.state.HoverNodeID)

	sc := &Scene{
		Generation: e.generation,
		Name:       e.topo.Meta.Name,
		Level:      e.state.ActiveLevel,
		ViewModes:  e.topo.Meta.ViewModes,
		Canvas:     e.canvas,
		Focus:      []string{},
		State:      e.state,
		Nodes:      []SceneNode{},
		Edges:      []SceneEdge{},
		Legend:     e.Legend(),
	}
	for _, n := range e.DrilldownPath() {
		sc.Focus = append(sc.Focus, n.ID)
	}
	for _, n := range e.VisibleNodes() {
		sc.Nodes = append(sc.Nodes, SceneNode{Node: n, NodeStyle: e.nodeStyle(n.ID, vis, conn)})
	}
	for _, ke := range e.VisibleEdges() {
		sc.Edges = append(sc.Edges, SceneEdge{
			Key:       ke.Key,
			Edge:      ke.Edge,
			Color:     e.IntentColor(ke.Edge.Intent),
			EdgeStyle: e.edgeStyle(ke.Key, ke.Edge, vis),
		})
	}
	return sc
}
