package view

import (
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// SetActiveLevel switches the active level. Levels missing from the
// document's view modes are rejected. Drilldown is left alone.
func (e *Engine) SetActiveLevel(level topology.Level) error {
	if !e.topo.Meta.HasViewMode(level) {
		return errs.New(errs.ErrCodeInvalidLevel, "level %q is not a view mode of this topology", level)
	}
	e.state.ActiveLevel = level
	e.invalidate()
	return nil
}

// SetDrilldown sets the medium or low focus. Clearing the medium focus also
// clears the low focus.
func (e *Engine) SetDrilldown(level topology.Level, id string) error {
	switch level {
	case topology.LevelMedium:
		e.state.Drilldown.Medium = id
		if id == "" {
			e.state.Drilldown.Low = ""
		}
	case topology.LevelLow:
		e.state.Drilldown.Low = id
	default:
		return errs.New(errs.ErrCodeInvalidLevel, "cannot focus level %q", level)
	}
	e.invalidate()
	return nil
}

// ResetDrilldown clears focus from level down. An empty level or medium
// clears both fields; low clears only the low focus.
func (e *Engine) ResetDrilldown(level topology.Level) {
	switch level {
	case "", topology.LevelMedium:
		e.state.Drilldown = Drilldown{}
	case topology.LevelLow:
		e.state.Drilldown.Low = ""
	}
	e.invalidate()
}

// ClearDrilldown clears both focus fields without changing the level.
func (e *Engine) ClearDrilldown() { e.ResetDrilldown("") }

// DrilldownPath returns the focused nodes from coarse to fine. Focus ids
// that do not resolve are skipped.
func (e *Engine) DrilldownPath() []*topology.Node {
	var path []*topology.Node
	if n := e.index.Node(e.state.Drilldown.Medium); n != nil {
		path = append(path, n)
	}
	if n := e.index.Node(e.state.Drilldown.Low); n != nil {
		path = append(path, n)
	}
	return path
}

// DrillInto moves the focus one level below id and selects the first child.
//
// A high node becomes the medium focus. A medium node becomes the low focus,
// with its parent as medium focus. A low node moves the low focus to its
// parent, which shows its siblings. A drill whose target level is not a
// view mode of the document is rejected like [Engine.SetActiveLevel].
func (e *Engine) DrillInto(id string) error {
	n, err := e.mustNode(id)
	if err != nil {
		return err
	}
	level := levelOf(n)
	if target := drillTarget(level); !e.topo.Meta.HasViewMode(target) {
		return errs.New(errs.ErrCodeInvalidLevel, "cannot drill into %q: level %q is not a view mode of this topology", n.ID, target)
	}
	children := e.index.ChildrenOf(n.ID)

	switch level {
	case topology.LevelHigh:
		e.state.Drilldown = Drilldown{Medium: n.ID}
		e.state.ActiveLevel = topology.LevelMedium
		e.state.SelectedNodeID = n.ID
		if len(children) > 0 {
			e.state.SelectedNodeID = children[0].ID
		}
	case topology.LevelMedium:
		if n.Parent != "" {
			e.state.Drilldown.Medium = n.Parent
		}
		e.state.Drilldown.Low = n.ID
		e.state.ActiveLevel = topology.LevelLow
		if len(children) > 0 {
			e.state.SelectedNodeID = children[0].ID
		}
	case topology.LevelLow:
		if n.Parent != "" {
			e.state.Drilldown.Low = n.Parent
		}
		e.state.SelectedNodeID = n.ID
	}
	e.invalidate()
	return nil
}

// drillTarget is the level shown after drilling into a node at level.
func drillTarget(level topology.Level) topology.Level {
	if level == topology.LevelHigh {
		return topology.LevelMedium
	}
	return topology.LevelLow
}
