package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

const doc = `{
	"meta": {"name": "Shop", "intents": {"feeds": {"color": "#123456"}}},
	"nodes": [
		{"id": "web", "level": "high", "label": "Storefront", "type": "frontend"},
		{
			"id": "api", "level": "high", "label": "Orders API", "type": "service",
			"summary": "Takes orders",
			"details": "Handles **checkout**.\n\n<script>alert(1)</script>",
			"status": {"label": "Healthy", "tone": "success"},
			"metrics": [{"label": "RPS", "value": 120}, {"label": "Errors", "value": 0}],
			"links": [{"label": "Runbook", "url": "https://wiki/runbook"}, {"url": "https://grafana"}, {"label": "nowhere"}],
			"source": {"path": "cmd/api/main.go", "lang": "go", "git": {"repo": "acme/shop", "commit": "0123456789abcdef"}},
			"work": {
				"issues": [{"number": 7, "title": "Slow", "state": "open", "labels": ["perf", "p1", "api", "extra"], "confidence": 0.824}],
				"prs": [{"number": 9, "title": "Cache", "state": "merged", "labels": ["perf"]}]
			},
			"insights": [{"level": "medium", "kind": "hot-spot", "text": "Busy", "confidence": 0.5, "sources": [{"type": "trace", "id": "t1"}]}]
		},
		{"id": "db", "level": "high", "label": "Orders DB", "type": "database", "layout": {"fixed": true}},
		{"id": "checkout", "level": "medium", "parent": "api", "label": "Checkout"},
		{"id": "billing", "level": "medium", "parent": "api", "label": "Billing"}
	],
	"edges": [
		{"from": "web", "to": "api", "intent": "depends-on"},
		{"from": "api", "to": "db", "intent": "feeds"},
		{"from": "api", "to": "ghost", "intent": "mystery-link"}
	]
}`

func engine(t *testing.T) *view.Engine {
	t.Helper()
	e := view.New()
	require.NoError(t, e.Load([]byte(doc)))
	return e
}

func TestInspect(t *testing.T) {
	p, err := Inspect(engine(t), "api")
	require.NoError(t, err)

	assert.Equal(t, "Orders API", p.Title)
	assert.Equal(t, topology.LevelHigh, p.Level)
	assert.Equal(t, "High", p.LevelLabel)
	assert.Equal(t, "Healthy", p.Status.Label)
	assert.Equal(t, []Metric{{"RPS", "120"}, {"Errors", "-"}}, p.Metrics)
	assert.Equal(t, []Link{{"Runbook", "https://wiki/runbook"}, {"https://grafana", "https://grafana"}}, p.Links)
	assert.False(t, p.Pinned)

	assert.Contains(t, p.DetailsHTML, "<strong>checkout</strong>")
	assert.NotContains(t, p.DetailsHTML, "<script>")

	assert.Equal(t, []Field{
		{Label: "Path", Value: "cmd/api/main.go", Code: true},
		{Label: "Language", Value: "go"},
		{Label: "Repo", Value: "acme/shop"},
		{Label: "Commit", Value: "0123456789ab", Code: true},
	}, p.Source)

	require.Len(t, p.Issues, 1)
	assert.Equal(t, "7", p.Issues[0].Number)
	assert.Equal(t, []string{"perf", "p1", "api"}, p.Issues[0].Labels)
	assert.Equal(t, "82% match", p.Issues[0].Confidence)
	require.Len(t, p.PRs, 1)
	assert.Nil(t, p.PRs[0].Labels)

	require.Len(t, p.Insights, 1)
	assert.Equal(t, "Hot Spot", p.Insights[0].Kind)
	assert.Equal(t, "50%", p.Insights[0].Confidence)
	assert.Equal(t, []string{"trace | t1"}, p.Insights[0].Sources)
}

func TestInspectNeighbors(t *testing.T) {
	p, err := Inspect(engine(t), "api")
	require.NoError(t, err)

	require.Len(t, p.Inputs, 1)
	assert.Equal(t, "Storefront", p.Inputs[0].Label)
	assert.Equal(t, "Depends On", p.Inputs[0].IntentLabel)

	require.Len(t, p.Outputs, 2)
	assert.Equal(t, "Orders DB", p.Outputs[0].Label)
	assert.Equal(t, "Feeds", p.Outputs[0].IntentLabel)
	assert.Equal(t, "#123456", p.Outputs[0].Color)
	assert.Equal(t, "ghost", p.Outputs[1].Label, "missing peers fall back to the id")
	assert.Equal(t, "Mystery Link", p.Outputs[1].IntentLabel)
}

func TestInspectContained(t *testing.T) {
	p, err := Inspect(engine(t), "api")
	require.NoError(t, err)

	require.NotNil(t, p.Contained)
	assert.Equal(t, "Medium-level modules", p.Contained.Title)
	assert.Equal(t, []Ref{{"billing", "Billing"}, {"checkout", "Checkout"}}, p.Contained.Items)
	assert.Zero(t, p.Contained.More)
	assert.Equal(t, "Inspect medium-level modules", p.DrillLabel)

	leaf, err := Inspect(engine(t), "web")
	require.NoError(t, err)
	assert.Nil(t, leaf.Contained)
	assert.Empty(t, leaf.DrillLabel)
}

func TestInspectFocusAndPin(t *testing.T) {
	e := engine(t)
	require.NoError(t, e.Dispatch(view.Drill("api")))

	p, err := Inspect(e, "checkout")
	require.NoError(t, err)
	assert.Equal(t, []Ref{{"api", "Orders API"}}, p.Focus)

	db, err := Inspect(e, "db")
	require.NoError(t, err)
	assert.True(t, db.Pinned)
}

func TestInspectUnknown(t *testing.T) {
	_, err := Inspect(engine(t), "nope")
	assert.True(t, errs.Is(err, errs.ErrCodeNodeNotFound))
}

func TestSelected(t *testing.T) {
	e := engine(t)
	_, ok := Selected(e)
	assert.False(t, ok)

	require.NoError(t, e.Dispatch(view.Select("web")))
	p, ok := Selected(e)
	require.True(t, ok)
	assert.Equal(t, "web", p.ID)
}

func TestContainedOverflow(t *testing.T) {
	var children []*topology.Node
	for _, label := range []string{"j", "i", "h", "g", "f", "e", "d", "c", "b", "a"} {
		children = append(children, &topology.Node{ID: label, Label: label})
	}
	c := contained(topology.LevelMedium, children)
	assert.Equal(t, "Low-level nodes", c.Title)
	assert.Len(t, c.Items, MaxContained)
	assert.Equal(t, "a", c.Items[0].ID)
	assert.Equal(t, 2, c.More)
}

func TestMarkdown(t *testing.T) {
	html, err := Markdown("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n```go\nfunc main() {}\n```")
	require.NoError(t, err)
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<pre")
}
