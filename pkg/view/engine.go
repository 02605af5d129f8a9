package view

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// Validator checks a raw document before it is normalized. A failing
// validator aborts the load.
type Validator interface {
	Validate(doc any) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithValidator rejects documents that fail v.
func WithValidator(v Validator) Option {
	return func(e *Engine) { e.validator = v }
}

// WithLogger sets the logger used for normalizer diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine is the view-state engine for one loaded topology.
type Engine struct {
	topo       *topology.Topology
	index      *topology.Index
	state      State
	canvas     Canvas
	generation string

	visibility *Visibility
	journal    map[*topology.Node]nodeSnapshot

	validator Validator
	logger    *log.Logger
}

// New returns an engine holding an empty topology.
func New(opts ...Option) *Engine {
	e := &Engine{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.install(topology.Normalize(nil))
	return e
}

// SetData validates and normalizes raw and makes it the current topology.
// The view state is reset. On error nothing changes.
func (e *Engine) SetData(raw any) error {
	if e.validator != nil {
		if err := e.validator.Validate(raw); err != nil {
			return err
		}
	}
	topo := topology.Normalize(raw)
	for _, d := range topo.Diagnostics {
		e.logger.Debug("normalize", "kind", d.Kind, "node", d.NodeID, "msg", d.Message)
	}
	e.install(topo)
	return nil
}

// Load decodes a JSON document and passes it to SetData.
func (e *Engine) Load(data []byte) error {
	raw, err := topology.Decode(data)
	if err != nil {
		return err
	}
	return e.SetData(raw)
}

func (e *Engine) install(topo *topology.Topology) {
	topo.EnsureAll()
	e.topo = topo
	e.index = topology.NewIndex(topo)
	e.state = State{
		ActiveLevel: topo.Meta.DefaultView,
		Filters:     DefaultFilters(),
	}
	e.canvas = defaultCanvas()
	e.generation = uuid.NewString()
	e.visibility = nil
}

// Topology returns the current topology. Callers must not replace nodes or
// edges; use the engine mutators.
func (e *Engine) Topology() *topology.Topology { return e.topo }

// Index returns the lookup index of the current topology.
func (e *Engine) Index() *topology.Index { return e.index }

// State returns a copy of the view state.
func (e *Engine) State() State { return e.state }

// Canvas returns the current canvas size.
func (e *Engine) Canvas() Canvas { return e.canvas }

// Generation identifies the current load. Every SetData produces a new one.
func (e *Engine) Generation() string { return e.generation }

// Node returns the node with the given id, or nil.
func (e *Engine) Node(id string) *topology.Node { return e.index.Node(id) }

// Children returns the children of id in document order.
func (e *Engine) Children(id string) []*topology.Node {
	return append([]*topology.Node(nil), e.index.ChildrenOf(id)...)
}

// IntentColor returns the legend color of an intent.
func (e *Engine) IntentColor(intent string) string {
	return e.topo.Meta.Intents.Color(intent)
}

// Export returns the current topology in its persisted form.
func (e *Engine) Export() (*topology.Topology, error) {
	return topology.Export(e.topo)
}

func (e *Engine) invalidate() { e.visibility = nil }

func (e *Engine) mustNode(id string) (*topology.Node, error) {
	n := e.index.Node(id)
	if n == nil {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "node %q not found", id)
	}
	return n, nil
}
