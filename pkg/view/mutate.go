package view

import (
	"context"
	"math"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// SetSearchTerm sets the free-text search.
func (e *Engine) SetSearchTerm(term string) {
	e.state.SearchTerm = term
	e.invalidate()
}

// SetFilters merges f into the current filters. Empty fields are kept.
func (e *Engine) SetFilters(f Filters) {
	if f.Type != "" {
		e.state.Filters.Type = f.Type
	}
	if f.Tag != "" {
		e.state.Filters.Tag = f.Tag
	}
	if f.Intent != "" {
		e.state.Filters.Intent = f.Intent
	}
	e.invalidate()
}

// SetFilter sets one filter by key. An empty value resets it to FilterAll.
func (e *Engine) SetFilter(key, value string) error {
	if value == "" {
		value = FilterAll
	}
	switch key {
	case FilterType:
		e.state.Filters.Type = value
	case FilterTag:
		e.state.Filters.Tag = value
	case FilterIntent:
		e.state.Filters.Intent = value
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown filter %q", key)
	}
	e.invalidate()
	return nil
}

// SelectNode selects id. An empty id clears the selection.
func (e *Engine) SelectNode(id string) { e.state.SelectedNodeID = id }

// HoverNode marks id as hovered. An empty id clears it.
func (e *Engine) HoverNode(id string) { e.state.HoverNodeID = id }

// MoveNode places a node at x, y and pins it there, so a later layout or a
// re-import keeps the dragged position.
func (e *Engine) MoveNode(id string, x, y float64) error {
	n, err := e.mustNode(id)
	if err != nil {
		return err
	}
	e.record(n)
	topology.EnsureLayout(n)
	n.Position = &topology.Point{X: x, Y: y}
	pin(n)
	return nil
}

// PinNode fixes the node at its current position and size. Later layouts
// leave it in place.
func (e *Engine) PinNode(id string) error {
	n, err := e.mustNode(id)
	if err != nil {
		return err
	}
	e.record(n)
	topology.EnsureLayout(n)
	pin(n)
	return nil
}

// pin writes the rounded position and size into the layout hint and marks
// it fixed. EnsureLayout must have run.
func pin(n *topology.Node) {
	x, y := math.Round(n.Position.X), math.Round(n.Position.Y)
	w, h := math.Round(n.Size.Width), math.Round(n.Size.Height)
	if n.Layout == nil {
		n.Layout = &topology.LayoutHint{}
	}
	n.Layout.X, n.Layout.Y = &x, &y
	n.Layout.Width, n.Layout.Height = &w, &h
	n.Layout.Fixed = true
}

// UnpinNode releases a pinned node. Its persisted coordinates stay.
func (e *Engine) UnpinNode(id string) error {
	n, err := e.mustNode(id)
	if err != nil {
		return err
	}
	e.record(n)
	if n.Layout != nil {
		n.Layout.Fixed = false
	}
	return nil
}

// ApplyLayout writes res into the topology when generation is still
// current. It reports whether the result was applied; results computed for
// an earlier load are discarded.
func (e *Engine) ApplyLayout(generation string, res *layout.Result) bool {
	if generation != e.generation || res == nil {
		return false
	}
	layout.Apply(e.topo, res)
	e.canvas = Canvas{Width: res.Width, Height: res.Height}
	return true
}

// RunLayout lays out the current topology with a and applies the result.
// The returned error is the non-fatal warning from [layout.Run].
func (e *Engine) RunLayout(ctx context.Context, a layout.Adapter) (*layout.Result, error) {
	gen := e.generation
	res, warn := layout.Run(ctx, a, e.topo)
	e.ApplyLayout(gen, res)
	return res, warn
}
