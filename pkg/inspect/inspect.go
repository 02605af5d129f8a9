// Package inspect builds the detail panel for a node: badges, contained
// children, neighbours grouped into inputs and outputs, tracker work,
// insights and the node's markdown details rendered to HTML.
//
// Panels are plain data. The terminal explorer, the HTTP API and the
// `inspect` command all present the same [Panel].
package inspect

import (
	"math"
	"sort"
	"strings"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// MaxContained is how many children a panel lists before summarising the
// rest as a count.
const MaxContained = 8

// Panel is the detail view of one node.
type Panel struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Level       topology.Level   `json:"level"`
	LevelLabel  string           `json:"levelLabel"`
	Type        string           `json:"type"`
	Status      *topology.Status `json:"status,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	Details     string           `json:"details,omitempty"`
	DetailsHTML string           `json:"detailsHtml,omitempty"`
	Contained   *Contained       `json:"contained,omitempty"`
	Metrics     []Metric         `json:"metrics"`
	Tags        []string         `json:"tags"`
	Links       []Link           `json:"links"`
	Source      []Field          `json:"source"`
	Issues      []WorkItem       `json:"issues"`
	PRs         []WorkItem       `json:"prs"`
	Insights    []Insight        `json:"insights"`
	Inputs      []Neighbor       `json:"inputs"`
	Outputs     []Neighbor       `json:"outputs"`
	Focus       []Ref            `json:"focus"`
	DrillLabel  string           `json:"drillLabel,omitempty"`
	Pinned      bool             `json:"pinned"`
}

// Ref names another node.
type Ref struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Contained lists the children shown on a panel.
type Contained struct {
	Title string `json:"title"`
	Items []Ref  `json:"items"`
	More  int    `json:"more"`
}

// Metric is a display-ready measurement.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Link is an outbound hyperlink.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Field is one labelled line of the source section.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Code  bool   `json:"code,omitempty"`
}

// WorkItem is a linked issue or pull request.
type WorkItem struct {
	Number     string   `json:"number"`
	Title      string   `json:"title,omitempty"`
	URL        string   `json:"url,omitempty"`
	State      string   `json:"state,omitempty"`
	Labels     []string `json:"labels,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
}

// Insight is a display-ready annotation.
type Insight struct {
	Level      topology.Level `json:"level"`
	Kind       string         `json:"kind"`
	Text       string         `json:"text"`
	Confidence string         `json:"confidence"`
	Actions    []string       `json:"actions,omitempty"`
	Sources    []string       `json:"sources,omitempty"`
}

// Neighbor is a node on the other end of an edge.
type Neighbor struct {
	Ref
	Intent      string `json:"intent"`
	IntentLabel string `json:"intentLabel"`
	Color       string `json:"color"`
}

// Selected builds the panel for the selected node, if any.
func Selected(e *view.Engine) (*Panel, bool) {
	id := e.State().SelectedNodeID
	if id == "" {
		return nil, false
	}
	p, err := Inspect(e, id)
	return p, err == nil
}

// Inspect builds the panel for id.
func Inspect(e *view.Engine, id string) (*Panel, error) {
	n := e.Node(id)
	if n == nil {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "node %q not found", id)
	}
	level := n.Level
	if level == "" {
		level = topology.LevelHigh
	}

	p := &Panel{
		ID:         n.ID,
		Title:      n.DisplayLabel(),
		Level:      level,
		LevelLabel: util.TitleCase(string(level)),
		Type:       n.Type,
		Status:     n.Status,
		Summary:    n.Summary,
		Details:    n.Details,
		Tags:       append([]string{}, n.Tags...),
		Pinned:     n.Pinned(),
		Metrics:    []Metric{},
		Links:      []Link{},
		Source:     sourceFields(n.Source),
		Insights:   insights(n.Insights),
		Focus:      []Ref{},
	}
	if n.Details != "" {
		html, err := Markdown(n.Details)
		if err != nil {
			return nil, err
		}
		p.DetailsHTML = html
	}

	for _, m := range n.Metrics {
		value := topology.Text(m.Value)
		switch value {
		case "", "0", "false":
			value = "-"
		}
		p.Metrics = append(p.Metrics, Metric{Label: m.Label, Value: value})
	}
	for _, l := range n.Links {
		url := topology.Text(topology.Lookup(l, "url"))
		if url == "" {
			continue
		}
		label := topology.Text(topology.Lookup(l, "label"))
		if label == "" {
			label = url
		}
		p.Links = append(p.Links, Link{Label: label, URL: url})
	}
	p.Issues, p.PRs = workItems(n.Work)

	children := e.Children(n.ID)
	if len(children) > 0 {
		p.Contained = contained(level, children)
		if level == topology.LevelHigh || level == topology.LevelMedium {
			p.DrillLabel = drillLabel(level)
		}
	}

	idx := e.Index()
	p.Inputs = neighbors(e, idx.Incoming(n.ID), func(edge *topology.Edge) string { return edge.From })
	p.Outputs = neighbors(e, idx.Outgoing(n.ID), func(edge *topology.Edge) string { return edge.To })

	for _, f := range e.DrilldownPath() {
		p.Focus = append(p.Focus, Ref{ID: f.ID, Label: f.DisplayLabel()})
	}
	return p, nil
}

func drillLabel(level topology.Level) string {
	if level == topology.LevelHigh {
		return "Inspect medium-level modules"
	}
	return "Inspect low-level components"
}

func contained(level topology.Level, children []*topology.Node) *Contained {
	title := "Contained nodes"
	switch level {
	case topology.LevelHigh:
		title = "Medium-level modules"
	case topology.LevelMedium:
		title = "Low-level nodes"
	}
	sorted := append([]*topology.Node(nil), children...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Label < sorted[j].Label })

	c := &Contained{Title: title, Items: []Ref{}}
	for i, child := range sorted {
		if i == MaxContained {
			c.More = len(sorted) - MaxContained
			break
		}
		c.Items = append(c.Items, Ref{ID: child.ID, Label: child.DisplayLabel()})
	}
	return c
}

func neighbors(e *view.Engine, edges []*topology.Edge, peer func(*topology.Edge) string) []Neighbor {
	intents := e.Topology().Meta.Intents
	out := make([]Neighbor, 0, len(edges))
	for _, edge := range edges {
		id := peer(edge)
		label := id
		if n := e.Node(id); n != nil {
			label = n.DisplayLabel()
		}
		intentLabel := util.TitleCase(edge.Intent)
		if in, ok := intents.Get(edge.Intent); ok && in.Label != "" {
			intentLabel = in.Label
		}
		out = append(out, Neighbor{
			Ref:         Ref{ID: id, Label: label},
			Intent:      edge.Intent,
			IntentLabel: intentLabel,
			Color:       e.IntentColor(edge.Intent),
		})
	}
	return out
}

func sourceFields(s *topology.Source) []Field {
	out := []Field{}
	if s == nil {
		return out
	}
	if s.Path != "" {
		out = append(out, Field{Label: "Path", Value: s.Path, Code: true})
	}
	if s.Symbol != "" {
		out = append(out, Field{Label: "Symbol", Value: s.Symbol, Code: true})
	}
	if s.Lang != "" {
		out = append(out, Field{Label: "Language", Value: s.Lang})
	}
	if s.Git != nil {
		if s.Git.Repo != "" {
			out = append(out, Field{Label: "Repo", Value: s.Git.Repo})
		}
		if s.Git.Commit != "" {
			commit := s.Git.Commit
			if len(commit) > 12 {
				commit = commit[:12]
			}
			out = append(out, Field{Label: "Commit", Value: commit, Code: true})
		}
		if s.Git.Blame != "" {
			out = append(out, Field{Label: "Blame", Value: s.Git.Blame})
		}
	}
	return out
}

func workItems(w *topology.Work) (issues, prs []WorkItem) {
	issues, prs = []WorkItem{}, []WorkItem{}
	if w == nil {
		return issues, prs
	}
	for _, it := range w.Issues {
		item := workItem(it)
		if len(item.Labels) > 3 {
			item.Labels = item.Labels[:3]
		}
		issues = append(issues, item)
	}
	for _, it := range w.PRs {
		item := workItem(it)
		item.Labels, item.Confidence = nil, ""
		prs = append(prs, item)
	}
	return issues, prs
}

func workItem(v any) WorkItem {
	item := WorkItem{
		Number: topology.Text(topology.Lookup(v, "number")),
		Title:  topology.Text(topology.Lookup(v, "title")),
		URL:    topology.Text(topology.Lookup(v, "url")),
		State:  topology.Text(topology.Lookup(v, "state")),
	}
	if labels, ok := topology.Lookup(v, "labels").([]any); ok {
		for _, l := range labels {
			if s := topology.Text(l); s != "" {
				item.Labels = append(item.Labels, s)
			}
		}
	}
	if c, ok := topology.Number(topology.Lookup(v, "confidence")); ok {
		item.Confidence = percent(c) + " match"
	}
	return item
}

func insights(in []topology.Insight) []Insight {
	out := make([]Insight, 0, len(in))
	for _, ins := range in {
		kind := ins.Kind
		if kind == "" {
			kind = "insight"
		}
		card := Insight{
			Level:      ins.Level,
			Kind:       util.TitleCase(kind),
			Text:       ins.Text,
			Confidence: "n/a",
			Actions:    ins.Actions,
		}
		if card.Level == "" {
			card.Level = topology.LevelHigh
		}
		if ins.Confidence != nil {
			card.Confidence = percent(*ins.Confidence)
		}
		for _, src := range ins.Sources {
			var parts []string
			if t := topology.Text(topology.Lookup(src, "type")); t != "" {
				parts = append(parts, t)
			}
			for _, key := range []string{"id", "path", "url"} {
				if s := topology.Text(topology.Lookup(src, key)); s != "" {
					parts = append(parts, s)
					break
				}
			}
			if len(parts) > 0 {
				card.Sources = append(card.Sources, strings.Join(parts, " | "))
			}
		}
		out = append(out, card)
	}
	return out
}

func percent(f float64) string {
	return topology.Text(math.Round(f*100)) + "%"
}
