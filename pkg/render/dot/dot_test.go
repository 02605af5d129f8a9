package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

const doc = `{
	"meta": {"name": "Shop"},
	"nodes": [
		{"id": "web", "level": "high", "label": "Storefront", "type": "frontend"},
		{"id": "api", "level": "high", "label": "Orders API", "type": "service", "summary": "Takes orders"},
		{"id": "db", "level": "high", "label": "Orders DB", "type": "database", "layout": {"fixed": true, "x": 1, "y": 2}},
		{"id": "cart", "level": "medium", "parent": "web"}
	],
	"edges": [
		{"from": "web", "to": "api", "intent": "depends-on", "label": "REST"},
		{"from": "api", "to": "db", "intent": "synchronizes"}
	]
}`

func scene(t *testing.T, cmds ...view.Command) *view.Scene {
	t.Helper()
	e := view.New()
	require.NoError(t, e.Load([]byte(doc)))
	require.NoError(t, e.Dispatch(cmds...))
	return e.Scene()
}

func TestToDOT(t *testing.T) {
	src := ToDOT(scene(t), Options{})

	assert.True(t, strings.HasPrefix(src, `digraph "Shop" {`))
	assert.Contains(t, src, "rankdir=LR;")
	assert.Contains(t, src, `"web" [label="Storefront"`)
	assert.Contains(t, src, `"web" -> "api" [color="#38bdf8", label="REST"`)
	assert.Contains(t, src, `"api" -> "db" [color="#a855f7"]`)
	assert.NotContains(t, src, `"cart"`, "medium nodes are not in the high view")

	db := lineFor(src, `"db" [`)
	assert.Contains(t, db, "peripheries=2", "pinned nodes get a double border")
}

func TestToDOTSearchDims(t *testing.T) {
	src := ToDOT(scene(t, view.Search("orders")), Options{})

	assert.Contains(t, lineFor(src, `"web" [`), `fontcolor="#cbd5e1"`)
	assert.NotContains(t, lineFor(src, `"api" [`), dimmedColor)
	assert.NotContains(t, lineFor(src, `"web" -> "api"`), "style=dashed", "search does not filter edges")

	hidden := ToDOT(scene(t, view.Search("orders")), Options{HideFiltered: true})
	assert.NotContains(t, hidden, `"web"`)
	assert.Contains(t, hidden, `"api" -> "db"`)
}

func TestToDOTIntentFilter(t *testing.T) {
	src := ToDOT(scene(t, view.FilterBy(view.FilterIntent, "synchronizes")), Options{})

	assert.Contains(t, lineFor(src, `"web" -> "api"`), "style=dashed")
	assert.NotContains(t, lineFor(src, `"api" -> "db"`), "style=dashed")
}

func TestToDOTSelection(t *testing.T) {
	src := ToDOT(scene(t, view.Select("api")), Options{})

	assert.Contains(t, lineFor(src, `"api" [`), "penwidth=3")
	assert.Contains(t, lineFor(src, `"web" [`), "penwidth=2")
	assert.Contains(t, lineFor(src, `"web" -> "api"`), "penwidth=2.5")
}

func TestToDOTDetailedAndLegend(t *testing.T) {
	src := ToDOT(scene(t), Options{Detailed: true, Legend: true})

	assert.Contains(t, src, `label="Orders API\nservice\nTakes orders"`)
	assert.Contains(t, src, "subgraph cluster_legend")
	assert.Contains(t, src, `label="Depends On"`)
	assert.NotContains(t, src, `label="Publishes Events"`, "only intents in use are listed")
}

func TestAccentStable(t *testing.T) {
	assert.Equal(t, Accent("service"), Accent("service"))
	assert.Contains(t, accents, Accent(""))
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	assert.Contains(t, out, `viewBox="0 0 100.00 50.00" width="100" height="50"`)
	assert.Contains(t, out, "<g/>")

	plain := []byte("<svg><g/></svg>")
	assert.Equal(t, plain, normalizeViewBox(plain))
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(scene(t), Options{}))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "Storefront")
}

func lineFor(src, prefix string) string {
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return line
		}
	}
	return ""
}
