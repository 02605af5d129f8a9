package topology

import (
	"fmt"
	"strings"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
)

// Normalize converts any decoded document into a structurally valid
// topology. It never fails: values that cannot be used are defaulted or
// dropped, and the repairs worth reporting are listed in the result's
// Diagnostics.
//
// raw may be a tree produced by [Decode] or [DecodeYAML], a map[string]any,
// raw JSON bytes, or any Go value that marshals to a JSON object. The input
// is never modified.
func Normalize(raw any) *Topology {
	tree, err := toTree(raw)
	if err != nil {
		tree = nil
	}
	root, _ := asObject(tree)

	n := &normalizer{t: &Topology{}}
	metaObj, _ := asObject(root.get("meta"))
	n.t.Meta = normalizeMeta(metaObj)
	n.collectNodes(root.get("nodes"))
	n.collectEdges(root.get("edges"))
	n.reconcile()
	return n.t
}

type normalizer struct {
	t    *Topology
	byID map[string]*Node
}

func (n *normalizer) diag(kind DiagnosticKind, nodeID string, format string, args ...any) {
	n.t.Diagnostics = append(n.t.Diagnostics, Diagnostic{
		Kind:    kind,
		NodeID:  nodeID,
		Message: fmt.Sprintf(format, args...),
	})
}

func (n *normalizer) collectNodes(v any) {
	items, _ := asArray(v)
	n.t.Nodes = make([]*Node, 0, len(items))
	n.byID = make(map[string]*Node, len(items))
	for i, item := range items {
		o, ok := asObject(item)
		if !ok {
			n.diag(DiagMissingID, "", "nodes[%d] is not an object and was dropped", i)
			continue
		}
		node := normalizeNode(o)
		if node.ID == "" {
			n.diag(DiagMissingID, "", "nodes[%d] has no id and was dropped", i)
			continue
		}
		if _, dup := n.byID[node.ID]; dup {
			n.diag(DiagDuplicateID, node.ID, "nodes[%d] repeats id %q; the first occurrence is kept", i, node.ID)
			continue
		}
		n.byID[node.ID] = node
		n.t.Nodes = append(n.t.Nodes, node)
	}
}

func (n *normalizer) collectEdges(v any) {
	items, _ := asArray(v)
	n.t.Edges = make([]*Edge, 0, len(items))
	for _, item := range items {
		o, ok := asObject(item)
		if !ok {
			continue
		}
		n.t.Edges = append(n.t.Edges, normalizeEdge(o))
	}
}

// =============================================================================
// Meta
// =============================================================================

var knownMetaFields = fieldSet("name", "version", "owner", "description", "intents",
	"guides", "viewModes", "defaultView", "insightPlaybook", "viewCaps", "overrides",
	"insights", "repository")

func normalizeMeta(o object) Meta {
	m := Meta{
		Name:            str(o.get("name")),
		Version:         str(o.get("version")),
		Owner:           str(o.get("owner")),
		Description:     str(o.get("description")),
		Intents:         normalizeIntents(o.get("intents")),
		Guides:          cloneArray(o.get("guides")),
		ViewModes:       normalizeViewModes(o.get("viewModes")),
		InsightPlaybook: cloneArray(o.get("insightPlaybook")),
		ViewCaps:        normalizeViewCaps(o.get("viewCaps")),
		Overrides:       normalizeOverrides(o.get("overrides")),
		Insights:        normalizeInsights(o.get("insights")),
		Extra:           o.extra(knownMetaFields),
	}
	if m.Name == "" {
		m.Name = DefaultName
	}
	if repo := o.get("repository"); truthy(repo) {
		m.Repository = util.DeepClone(repo)
	}

	m.DefaultView = LevelHigh
	if level, ok := ParseLevel(str(o.get("defaultView"))); ok {
		m.DefaultView = level
	}
	if !m.HasViewMode(m.DefaultView) {
		m.DefaultView = m.ViewModes[0]
	}
	return m
}

// normalizeIntents overlays the document's intents on the builtin table.
// Overridden intents keep their builtin position; new ones are appended.
func normalizeIntents(v any) *Intents {
	intents := DefaultIntents()
	o, ok := asObject(v)
	if !ok {
		return intents
	}
	for _, key := range o.keys() {
		entry, ok := asObject(o.get(key))
		if !ok {
			continue
		}
		intent := Intent{Label: str(entry.get("label")), Color: str(entry.get("color"))}
		if intent.Label == "" {
			intent.Label = util.TitleCase(key)
		}
		intents.Set(key, intent)
	}
	return intents
}

func normalizeViewModes(v any) []Level {
	var modes []Level
	seen := make(map[Level]bool, 3)
	for _, s := range uniqueStrings(v, true) {
		level, ok := ParseLevel(s)
		if !ok || seen[level] {
			continue
		}
		seen[level] = true
		modes = append(modes, level)
	}
	if len(modes) == 0 {
		return append([]Level(nil), Levels...)
	}
	return modes
}

func normalizeViewCaps(v any) map[Level]float64 {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	caps := make(map[Level]float64)
	for _, level := range Levels {
		if f, ok := num(o.get(string(level))); ok {
			caps[level] = f
		}
	}
	if len(caps) == 0 {
		return nil
	}
	return caps
}

func normalizeOverrides(v any) *Overrides {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	var ov Overrides
	if _, ok := asArray(o.get("pin")); ok {
		ov.Pin = uniqueStrings(o.get("pin"), false)
	}
	if _, ok := asArray(o.get("hide")); ok {
		ov.Hide = uniqueStrings(o.get("hide"), false)
	}
	if rename, ok := asObject(o.get("rename")); ok {
		ov.Rename = make(map[string]string)
		for _, k := range rename.keys() {
			if s, ok := rename.get(k).(string); ok {
				ov.Rename[k] = s
			}
		}
	}
	if len(ov.Pin) == 0 && len(ov.Hide) == 0 && len(ov.Rename) == 0 {
		return nil
	}
	return &ov
}

// =============================================================================
// Nodes
// =============================================================================

var knownNodeFields = fieldSet("id", "label", "level", "type", "group", "summary",
	"details", "icon", "tags", "metrics", "parent", "children", "links", "status",
	"layout", "position", "size", "source", "work", "insights")

func normalizeNode(o object) *Node {
	node := &Node{
		ID:       str(o.get("id")),
		Label:    str(o.get("label")),
		Level:    LevelHigh,
		Type:     str(o.get("type")),
		Group:    str(o.get("group")),
		Summary:  str(o.get("summary")),
		Details:  str(o.get("details")),
		Icon:     str(o.get("icon")),
		Tags:     uniqueStrings(o.get("tags"), false),
		Metrics:  normalizeMetrics(o.get("metrics")),
		Parent:   strings.TrimSpace(str(o.get("parent"))),
		Children: uniqueStrings(o.get("children"), true),
		Links:    cloneArray(o.get("links")),
		Status:   normalizeStatus(o.get("status")),
		Layout:   normalizeLayoutHint(o.get("layout")),
		Position: normalizePoint(o.get("position")),
		Size:     normalizeSize(o.get("size")),
		Source:   normalizeSource(o.get("source")),
		Work:     normalizeWork(o.get("work")),
		Insights: normalizeInsights(o.get("insights")),
		Extra:    o.extra(knownNodeFields),
	}
	if level, ok := ParseLevel(str(o.get("level"))); ok {
		node.Level = level
	}
	if node.Type == "" {
		node.Type = DefaultNodeType
	}
	if node.Parent == node.ID {
		node.Parent = ""
	}
	return node
}

// normalizeMetrics accepts either a list of {label, value} objects or a
// mapping from label to value, which becomes a list in key order.
func normalizeMetrics(v any) []Metric {
	out := []Metric{}
	if items, ok := asArray(v); ok {
		for _, item := range items {
			o, ok := asObject(item)
			if !ok {
				continue
			}
			out = append(out, Metric{Label: str(o.get("label")), Value: util.DeepClone(o.get("value"))})
		}
		return out
	}
	if o, ok := asObject(v); ok {
		for _, k := range o.keys() {
			out = append(out, Metric{Label: k, Value: util.DeepClone(o.get(k))})
		}
	}
	return out
}

func normalizeStatus(v any) *Status {
	if s, ok := v.(string); ok && s != "" {
		return &Status{Label: s}
	}
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	st := &Status{Label: str(o.get("label")), Tone: str(o.get("tone"))}
	if st.Label == "" && st.Tone == "" {
		return nil
	}
	return st
}

func normalizeLayoutHint(v any) *LayoutHint {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	hint := &LayoutHint{
		X:      optNum(o.get("x")),
		Y:      optNum(o.get("y")),
		Width:  optNum(o.get("width")),
		Height: optNum(o.get("height")),
		Fixed:  boolean(o.get("fixed")),
	}
	if hint.X == nil && hint.Y == nil && hint.Width == nil && hint.Height == nil && !hint.Fixed {
		return nil
	}
	return hint
}

func normalizePoint(v any) *Point {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	x, okX := num(o.get("x"))
	y, okY := num(o.get("y"))
	if !okX && !okY {
		return nil
	}
	return &Point{X: x, Y: y}
}

func normalizeSize(v any) *Size {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	w, okW := num(o.get("width"))
	h, okH := num(o.get("height"))
	if !okW && !okH {
		return nil
	}
	return &Size{Width: w, Height: h}
}

// =============================================================================
// Edges
// =============================================================================

var knownEdgeFields = fieldSet("id", "from", "to", "intent", "label", "description",
	"level", "source", "work", "insights")

func normalizeEdge(o object) *Edge {
	edge := &Edge{
		ID:          str(o.get("id")),
		From:        str(o.get("from")),
		To:          str(o.get("to")),
		Intent:      str(o.get("intent")),
		Label:       str(o.get("label")),
		Description: str(o.get("description")),
		Source:      normalizeSource(o.get("source")),
		Work:        normalizeWork(o.get("work")),
		Insights:    normalizeInsights(o.get("insights")),
		Extra:       o.extra(knownEdgeFields),
	}
	if edge.Intent == "" {
		edge.Intent = DefaultIntent
	}
	// An edge without a valid level takes its level from its endpoints.
	if level, ok := ParseLevel(str(o.get("level"))); ok {
		edge.Level = level
	}
	return edge
}

// =============================================================================
// Shared Blocks
// =============================================================================

func normalizeSource(v any) *Source {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	src := &Source{
		Type:   str(o.get("type")),
		Path:   str(o.get("path")),
		Symbol: str(o.get("symbol")),
		Lang:   str(o.get("lang")),
		URL:    str(o.get("url")),
	}
	if g, ok := asObject(o.get("git")); ok {
		src.Git = &Git{
			Repo:   str(g.get("repo")),
			Commit: str(g.get("commit")),
			Blame:  str(g.get("blame")),
		}
	}
	return src
}

func normalizeWork(v any) *Work {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	w := &Work{Issues: cloneArray(o.get("issues")), PRs: cloneArray(o.get("prs"))}
	if len(w.Issues) == 0 && len(w.PRs) == 0 {
		return nil
	}
	return w
}

var knownInsightFields = fieldSet("level", "kind", "title", "text", "confidence",
	"actions", "sources")

func normalizeInsights(v any) []Insight {
	items, _ := asArray(v)
	out := make([]Insight, 0, len(items))
	for _, item := range items {
		o, ok := asObject(item)
		if !ok {
			continue
		}
		in := Insight{
			Level:   LevelHigh,
			Kind:    str(o.get("kind")),
			Title:   str(o.get("title")),
			Text:    str(o.get("text")),
			Actions: uniqueStrings(o.get("actions"), false),
			Sources: cloneArray(o.get("sources")),
			Extra:   o.extra(knownInsightFields),
		}
		if level, ok := ParseLevel(str(o.get("level"))); ok {
			in.Level = level
		}
		if len(in.Actions) == 0 {
			in.Actions = nil
		}
		if c, ok := num(o.get("confidence")); ok {
			c = min(max(c, 0), 1)
			in.Confidence = &c
		}
		out = append(out, in)
	}
	return out
}

// =============================================================================
// Helpers
// =============================================================================

func fieldSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func cloneArray(v any) []any {
	items, ok := asArray(v)
	if !ok {
		return []any{}
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = util.DeepClone(item)
	}
	return out
}

func optNum(v any) *float64 {
	f, ok := num(v)
	if !ok {
		return nil
	}
	return &f
}
