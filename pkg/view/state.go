package view

import (
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// FilterAll disables a filter. The empty string means the same.
const FilterAll = "all"

// Filter keys accepted by [Engine.SetFilter].
const (
	FilterType   = "type"
	FilterTag    = "tag"
	FilterIntent = "intent"
)

// State is the user-controlled part of a view.
type State struct {
	ActiveLevel    topology.Level `json:"activeLevel"`
	Drilldown      Drilldown      `json:"drilldown"`
	SelectedNodeID string         `json:"selectedNodeId,omitempty"`
	HoverNodeID    string         `json:"hoverNodeId,omitempty"`
	SearchTerm     string         `json:"searchTerm"`
	Filters        Filters        `json:"filters"`
}

// Drilldown is the focus that scopes medium and low nodes. Empty fields are
// unset.
type Drilldown struct {
	Medium string `json:"medium,omitempty"`
	Low    string `json:"low,omitempty"`
}

// Filters restrict matches by node type, node tag and edge intent.
type Filters struct {
	Type   string `json:"type"`
	Tag    string `json:"tag"`
	Intent string `json:"intent"`
}

// DefaultFilters returns filters that match everything.
func DefaultFilters() Filters {
	return Filters{Type: FilterAll, Tag: FilterAll, Intent: FilterAll}
}

func active(filter string) bool {
	return filter != "" && filter != FilterAll
}

// Canvas is the size of the laid-out drawing.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func defaultCanvas() Canvas {
	return Canvas{Width: topology.DefaultCanvasWidth, Height: topology.DefaultCanvasHeight}
}
