package layout

import (
	"context"
	"fmt"
	"time"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/observability"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// Canvas geometry shared by every adapter.
const (
	Margin    = 120
	MinWidth  = 800
	MinHeight = 600

	// DefaultTimeout bounds a Run whose context has no deadline.
	DefaultTimeout = 10 * time.Second
)

// Box is the layout input for one node.
type Box struct {
	ID     string
	Width  float64
	Height float64
}

// Link is the layout input for one edge.
type Link struct {
	From string
	To   string
}

// Rect is a positioned node: top-left corner plus size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result is a complete layout.
type Result struct {
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Nodes    map[string]Rect `json:"nodes"`
	Engine   string          `json:"engine"`
	Fallback bool            `json:"fallback"`
}

// Adapter computes node positions.
type Adapter interface {
	Name() string
	Layout(ctx context.Context, boxes []Box, links []Link) (*Result, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(ctx context.Context, boxes []Box, links []Link) (*Result, error)

// Name implements Adapter.
func (f AdapterFunc) Name() string { return "func" }

// Layout implements Adapter.
func (f AdapterFunc) Layout(ctx context.Context, boxes []Box, links []Link) (*Result, error) {
	return f(ctx, boxes, links)
}

// Inputs builds adapter input from t. Every node gets a size first; edges
// with a missing endpoint are left out.
func Inputs(t *topology.Topology) ([]Box, []Link) {
	boxes := make([]Box, 0, len(t.Nodes))
	known := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		topology.EnsureLayout(n)
		boxes = append(boxes, Box{ID: n.ID, Width: n.Size.Width, Height: n.Size.Height})
		known[n.ID] = true
	}
	links := make([]Link, 0, len(t.Edges))
	for _, e := range t.Edges {
		if known[e.From] && known[e.To] {
			links = append(links, Link{From: e.From, To: e.To})
		}
	}
	return boxes, links
}

// Run lays out t with a, falling back to Grid when a is nil, fails, panics
// or exceeds the context deadline. The result is never nil. The error is a
// LAYOUT_FAILED warning describing why the fallback was used.
func Run(ctx context.Context, a Adapter, t *topology.Topology) (*Result, error) {
	boxes, links := Inputs(t)
	if len(boxes) == 0 {
		return Grid(nil), nil
	}
	if a == nil {
		return Grid(boxes), nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, a.Name(), len(boxes))
	start := time.Now()

	res, err := runAdapter(ctx, a, boxes, links)
	if err == nil {
		err = complete(res, boxes)
	}
	hooks.OnLayoutComplete(ctx, a.Name(), time.Since(start), err)
	if err != nil {
		fallback := Grid(boxes)
		fallback.Fallback = true
		return fallback, errs.Wrap(errs.ErrCodeLayoutFailed, err, "%s layout failed, using grid", a.Name())
	}
	res.Engine = a.Name()
	return res, nil
}

// runAdapter calls the adapter on its own goroutine so that a stuck engine
// cannot outlive the context.
func runAdapter(ctx context.Context, a Adapter, boxes []Box, links []Link) (*Result, error) {
	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		res, err := a.Layout(ctx, boxes, links)
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.res, out.err
	}
}

// complete rejects results that do not place every box.
func complete(res *Result, boxes []Box) error {
	if res == nil {
		return fmt.Errorf("adapter returned no result")
	}
	for _, b := range boxes {
		if _, ok := res.Nodes[b.ID]; !ok {
			return fmt.Errorf("adapter did not place node %q", b.ID)
		}
	}
	return nil
}

// Apply writes the positions and sizes of res into t. Pinned nodes keep
// their persisted coordinates.
func Apply(t *topology.Topology, res *Result) {
	if res == nil {
		return
	}
	for _, n := range t.Nodes {
		topology.EnsureLayout(n)
		rect, ok := res.Nodes[n.ID]
		if !ok || n.Pinned() {
			continue
		}
		n.Position = &topology.Point{X: rect.X, Y: rect.Y}
		if rect.Width > 0 && rect.Height > 0 {
			n.Size = &topology.Size{Width: rect.Width, Height: rect.Height}
		}
	}
}

// Engine names accepted by [NewAdapter].
const (
	EngineGraphviz = "graphviz"
	EngineGrid     = "grid"
)

// NewAdapter returns the adapter registered under name. An empty name
// selects Graphviz.
func NewAdapter(name string) (Adapter, error) {
	switch name {
	case "", EngineGraphviz, "dot":
		return NewGraphviz(), nil
	case EngineGrid:
		return GridAdapter{}, nil
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unknown layout engine %q (want graphviz or grid)", name)
}
