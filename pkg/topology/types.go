package topology

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// =============================================================================
// Constants
// =============================================================================

// Defaults applied by the normalizer.
const (
	DefaultName         = "Untitled Topology"
	DefaultNodeType     = "component"
	DefaultIntent       = "link"
	FallbackColor       = "#94a3b8"
	DefaultNodeWidth    = 260
	DefaultNodeHeight   = 120
	MaxAutoNodeWidth    = 520
	DefaultCanvasWidth  = 1400
	DefaultCanvasHeight = 900
)

// Extra holds document fields the model does not recognise. They are kept
// in input order and written back on export.
type Extra = *orderedmap.OrderedMap[string, any]

// =============================================================================
// Topology
// =============================================================================

// Topology is a normalized document: metadata plus ordered nodes and edges.
//
// Build one with [Normalize] or [Parse]; decoding JSON straight into a
// Topology skips defaulting and reference repair.
type Topology struct {
	Meta  Meta    `json:"meta"`
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	// Diagnostics lists the repairs the normalizer made that a user may want
	// to know about. It is not serialized.
	Diagnostics []Diagnostic `json:"-"`
}

// DiagnosticKind classifies a normalizer diagnostic.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagMissingID       DiagnosticKind = "missing-id"
	DiagDuplicateID     DiagnosticKind = "duplicate-id"
	DiagAmbiguousParent DiagnosticKind = "ambiguous-parent"
	DiagParentCycle     DiagnosticKind = "parent-cycle"
	DiagDanglingEdge    DiagnosticKind = "dangling-edge"
)

// Diagnostic describes one normalizer repair.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	NodeID     string         `json:"nodeId,omitempty"`
	Candidates []string       `json:"candidates,omitempty"`
	Message    string         `json:"message"`
}

// =============================================================================
// Meta
// =============================================================================

// Meta is the document-level metadata block.
type Meta struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Owner           string            `json:"owner"`
	Description     string            `json:"description"`
	Intents         *Intents          `json:"intents"`
	Guides          []any             `json:"guides"`
	ViewModes       []Level           `json:"viewModes"`
	DefaultView     Level             `json:"defaultView"`
	InsightPlaybook []any             `json:"insightPlaybook"`
	ViewCaps        map[Level]float64 `json:"viewCaps,omitempty"`
	Overrides       *Overrides        `json:"overrides,omitempty"`
	Insights        []Insight         `json:"insights"`
	Repository      any               `json:"repository,omitempty"`
	Extra           Extra             `json:"-"`
}

// MarshalJSON writes the known fields followed by unrecognised ones.
func (m Meta) MarshalJSON() ([]byte, error) {
	type plain Meta
	return marshalWithExtra(plain(m), m.Extra)
}

// HasViewMode reports whether level may be selected as the active level.
func (m *Meta) HasViewMode(level Level) bool {
	for _, l := range m.ViewModes {
		if l == level {
			return true
		}
	}
	return false
}

// Overrides carries per-node presentation overrides.
type Overrides struct {
	Pin    []string          `json:"pin,omitempty"`
	Hide   []string          `json:"hide,omitempty"`
	Rename map[string]string `json:"rename,omitempty"`
}

// =============================================================================
// Intents
// =============================================================================

// Intent is the presentation of one edge intent.
type Intent struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Intents is an insertion-ordered intent table. Legend order follows it.
type Intents struct {
	keys []string
	byID map[string]Intent
}

// NewIntents returns an empty table.
func NewIntents() *Intents {
	return &Intents{byID: make(map[string]Intent)}
}

// DefaultIntents returns the builtin intent table.
func DefaultIntents() *Intents {
	in := NewIntents()
	in.Set("link", Intent{Label: "Relationship", Color: "#94a3b8"})
	in.Set("depends-on", Intent{Label: "Depends On", Color: "#38bdf8"})
	in.Set("publishes", Intent{Label: "Publishes Events", Color: "#f472b6"})
	in.Set("controls", Intent{Label: "Controls / Commands", Color: "#f97316"})
	in.Set("synchronizes", Intent{Label: "Synchronizes", Color: "#a855f7"})
	in.Set("bridge", Intent{Label: "Bridge / Integration", Color: "#fbbf24"})
	in.Set("external", Intent{Label: "External Plugin", Color: "#fb7185"})
	return in
}

// Set adds or replaces an intent. Replacing keeps the original position.
func (in *Intents) Set(key string, intent Intent) {
	if in.byID == nil {
		in.byID = make(map[string]Intent)
	}
	if _, ok := in.byID[key]; !ok {
		in.keys = append(in.keys, key)
	}
	in.byID[key] = intent
}

// Get returns the intent registered under key.
func (in *Intents) Get(key string) (Intent, bool) {
	if in == nil {
		return Intent{}, false
	}
	intent, ok := in.byID[key]
	return intent, ok
}

// Keys returns the intent keys in order.
func (in *Intents) Keys() []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in.keys...)
}

// Len returns the number of intents.
func (in *Intents) Len() int {
	if in == nil {
		return 0
	}
	return len(in.keys)
}

// Color returns the color for key, or the fallback color.
func (in *Intents) Color(key string) string {
	if intent, ok := in.Get(key); ok && intent.Color != "" {
		return intent.Color
	}
	return FallbackColor
}

// MarshalJSON writes the table as an object in insertion order.
func (in *Intents) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if in != nil {
		for i, key := range in.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(in.byID[key])
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// =============================================================================
// Node
// =============================================================================

// Node is a unit of the topology at one level.
type Node struct {
	ID       string      `json:"id"`
	Label    string      `json:"label,omitempty"`
	Level    Level       `json:"level"`
	Type     string      `json:"type"`
	Group    string      `json:"group,omitempty"`
	Summary  string      `json:"summary,omitempty"`
	Details  string      `json:"details,omitempty"`
	Icon     string      `json:"icon,omitempty"`
	Tags     []string    `json:"tags"`
	Metrics  []Metric    `json:"metrics"`
	Parent   string      `json:"parent,omitempty"`
	Children []string    `json:"children"`
	Links    []any       `json:"links"`
	Status   *Status     `json:"status,omitempty"`
	Layout   *LayoutHint `json:"layout,omitempty"`
	Position *Point      `json:"position,omitempty"`
	Size     *Size       `json:"size,omitempty"`
	Source   *Source     `json:"source,omitempty"`
	Work     *Work       `json:"work,omitempty"`
	Insights []Insight   `json:"insights"`
	Extra    Extra       `json:"-"`
}

// MarshalJSON writes the known fields followed by unrecognised ones.
func (n *Node) MarshalJSON() ([]byte, error) {
	type plain Node
	return marshalWithExtra((*plain)(n), n.Extra)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasTag reports whether the node carries tag.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Pinned reports whether the node's position is fixed by the user.
func (n *Node) Pinned() bool {
	return n.Layout != nil && n.Layout.Fixed
}

// Metric is one labelled measurement shown on a node.
type Metric struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Status is a short status badge.
type Status struct {
	Label string `json:"label,omitempty"`
	Tone  string `json:"tone,omitempty"`
}

// LayoutHint holds persisted geometry. Fixed marks a pinned node.
type LayoutHint struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Fixed  bool     `json:"fixed,omitempty"`
}

// Point is a top-left canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a box size in canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Source points at the code behind a node or edge.
type Source struct {
	Type   string `json:"type,omitempty"`
	Path   string `json:"path,omitempty"`
	Symbol string `json:"symbol,omitempty"`
	Lang   string `json:"lang,omitempty"`
	URL    string `json:"url,omitempty"`
	Git    *Git   `json:"git,omitempty"`
}

// Git locates a source in version control.
type Git struct {
	Repo   string `json:"repo,omitempty"`
	Commit string `json:"commit,omitempty"`
	Blame  string `json:"blame,omitempty"`
}

// Work links a node to tracker items. A normalized Work is never empty.
type Work struct {
	Issues []any `json:"issues"`
	PRs    []any `json:"prs"`
}

// Insight is an annotation attached to a node, an edge or the document.
type Insight struct {
	Level      Level    `json:"level"`
	Kind       string   `json:"kind,omitempty"`
	Title      string   `json:"title,omitempty"`
	Text       string   `json:"text,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Actions    []string `json:"actions,omitempty"`
	Sources    []any    `json:"sources"`
	Extra      Extra    `json:"-"`
}

// MarshalJSON writes the known fields followed by unrecognised ones.
func (i Insight) MarshalJSON() ([]byte, error) {
	type plain Insight
	return marshalWithExtra(plain(i), i.Extra)
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed, intent-labelled relationship between two nodes.
//
// Level is empty when the edge takes its level from its endpoints.
type Edge struct {
	ID          string    `json:"id,omitempty"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Intent      string    `json:"intent"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description"`
	Level       Level     `json:"level,omitempty"`
	Source      *Source   `json:"source,omitempty"`
	Work        *Work     `json:"work,omitempty"`
	Insights    []Insight `json:"insights"`
	Extra       Extra     `json:"-"`
}

// MarshalJSON writes the known fields followed by unrecognised ones.
func (e *Edge) MarshalJSON() ([]byte, error) {
	type plain Edge
	return marshalWithExtra((*plain)(e), e.Extra)
}

// =============================================================================
// Internal Implementation
// =============================================================================

// marshalWithExtra encodes v, which must encode to a JSON object, and splices
// the extra fields in before the closing brace.
func marshalWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || extra == nil || extra.Len() == 0 {
		return data, err
	}
	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	empty := len(data) == 2
	for pair := extra.Oldest(); pair != nil; pair = pair.Next() {
		k, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
