package view

import "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"

// Command is one state mutation.
type Command func(*Engine) error

// Dispatch applies cmds in order and then recomputes visibility. The batch
// is all or nothing: when a command fails, the view state and any node
// positions changed by earlier commands are restored.
func (e *Engine) Dispatch(cmds ...Command) error {
	defer e.Recompute()
	saved := e.state
	e.journal = make(map[*topology.Node]nodeSnapshot)
	defer func() { e.journal = nil }()

	for _, cmd := range cmds {
		if err := cmd(e); err != nil {
			e.state = saved
			e.rollback()
			return err
		}
	}
	return nil
}

// nodeSnapshot holds the placement of a node before a batch touched it.
type nodeSnapshot struct {
	layout   *topology.LayoutHint
	position *topology.Point
	size     *topology.Size
}

// record remembers n's placement the first time a batch changes it.
// Outside Dispatch it does nothing.
func (e *Engine) record(n *topology.Node) {
	if e.journal == nil {
		return
	}
	if _, ok := e.journal[n]; ok {
		return
	}
	var snap nodeSnapshot
	if n.Layout != nil {
		l := *n.Layout
		snap.layout = &l
	}
	if n.Position != nil {
		p := *n.Position
		snap.position = &p
	}
	if n.Size != nil {
		sz := *n.Size
		snap.size = &sz
	}
	e.journal[n] = snap
}

func (e *Engine) rollback() {
	for n, snap := range e.journal {
		n.Layout, n.Position, n.Size = snap.layout, snap.position, snap.size
	}
}

// ActivateLevel switches the active level.
func ActivateLevel(level topology.Level) Command {
	return func(e *Engine) error { return e.SetActiveLevel(level) }
}

// Focus sets the medium or low drilldown focus.
func Focus(level topology.Level, id string) Command {
	return func(e *Engine) error { return e.SetDrilldown(level, id) }
}

// ClearFocus clears the drilldown from level down.
func ClearFocus(level topology.Level) Command {
	return func(e *Engine) error {
		e.ResetDrilldown(level)
		return nil
	}
}

// Drill drills into id.
func Drill(id string) Command {
	return func(e *Engine) error { return e.DrillInto(id) }
}

// Search sets the search term.
func Search(term string) Command {
	return func(e *Engine) error {
		e.SetSearchTerm(term)
		return nil
	}
}

// FilterBy sets one filter.
func FilterBy(key, value string) Command {
	return func(e *Engine) error { return e.SetFilter(key, value) }
}

// Select selects id, or clears the selection when id is empty.
func Select(id string) Command {
	return func(e *Engine) error {
		e.SelectNode(id)
		return nil
	}
}

// Hover marks id as hovered.
func Hover(id string) Command {
	return func(e *Engine) error {
		e.HoverNode(id)
		return nil
	}
}

// Move places a node at x, y.
func Move(id string, x, y float64) Command {
	return func(e *Engine) error { return e.MoveNode(id, x, y) }
}

// Pin pins a node at its current position.
func Pin(id string) Command {
	return func(e *Engine) error { return e.PinNode(id) }
}

// Unpin releases a pinned node.
func Unpin(id string) Command {
	return func(e *Engine) error { return e.UnpinNode(id) }
}
