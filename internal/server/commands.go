package server

import (
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// Command ops accepted by POST /api/commands.
const (
	OpLevel      = "level"
	OpFocus      = "focus"
	OpClearFocus = "clear-focus"
	OpDrill      = "drill"
	OpSearch     = "search"
	OpFilter     = "filter"
	OpSelect     = "select"
	OpHover      = "hover"
	OpMove       = "move"
	OpPin        = "pin"
	OpUnpin      = "unpin"
)

// CommandRequest is one view command in JSON form.
//
//	{"op": "drill", "id": "orders"}
//	{"op": "filter", "key": "intent", "value": "depends-on"}
type CommandRequest struct {
	Op    string         `json:"op"`
	Level topology.Level `json:"level,omitempty"`
	ID    string         `json:"id,omitempty"`
	Term  string         `json:"term,omitempty"`
	Key   string         `json:"key,omitempty"`
	Value string         `json:"value,omitempty"`
	X     float64        `json:"x,omitempty"`
	Y     float64        `json:"y,omitempty"`
}

// Batch is the body of POST /api/commands.
type Batch struct {
	Requests []CommandRequest `json:"commands"`
}

// Command converts the request to an engine command.
func (c CommandRequest) Command() (view.Command, error) {
	switch c.Op {
	case OpLevel:
		return view.ActivateLevel(c.Level), nil
	case OpFocus:
		return view.Focus(c.Level, c.ID), nil
	case OpClearFocus:
		return view.ClearFocus(c.Level), nil
	case OpDrill:
		return view.Drill(c.ID), nil
	case OpSearch:
		return view.Search(c.Term), nil
	case OpFilter:
		return view.FilterBy(c.Key, c.Value), nil
	case OpSelect:
		return view.Select(c.ID), nil
	case OpHover:
		return view.Hover(c.ID), nil
	case OpMove:
		return view.Move(c.ID, c.X, c.Y), nil
	case OpPin:
		return view.Pin(c.ID), nil
	case OpUnpin:
		return view.Unpin(c.ID), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "unknown command op %q", c.Op)
}

// Commands converts every request, failing on the first unknown op so that
// a malformed batch changes nothing.
func (b Batch) Commands() ([]view.Command, error) {
	cmds := make([]view.Command, 0, len(b.Requests))
	for _, c := range b.Requests {
		cmd, err := c.Command()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
