package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/cache"
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

const doc = `{
	"meta": {"name": "Shop", "intents": {"depends-on": {"label": "Depends On", "color": "#38bdf8"}}},
	"nodes": [
		{"id": "web", "label": "Storefront", "type": "service", "tags": ["edge"]},
		{"id": "orders", "label": "Orders", "type": "service"},
		{"id": "cart", "level": "medium", "parent": "web", "label": "Cart"},
		{"id": "checkout", "level": "medium", "parent": "web", "label": "Checkout"}
	],
	"edges": [
		{"from": "web", "to": "orders", "intent": "depends-on"},
		{"from": "cart", "to": "checkout", "level": "medium"}
	]
}`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func quietLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetLevel(log.FatalLevel)
	return l
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, DefaultEngine, opts.Engine)
	assert.Equal(t, DefaultLayoutTimeout, opts.LayoutTimeout)
	assert.Equal(t, []string{render.FormatJSON}, opts.Formats)
	assert.Equal(t, DefaultScale, opts.Scale)
	assert.True(t, opts.Wants(render.FormatJSON))
	assert.False(t, opts.Wants(render.FormatSVG))
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"engine", Options{Engine: "neato"}, errs.ErrCodeUnsupported},
		{"level", Options{Level: "huge"}, errs.ErrCodeInvalidLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			assert.True(t, errs.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestExecuteJSON(t *testing.T) {
	r := NewRunner(nil, quietLogger())
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{
		Location: writeDoc(t),
		Engine:   layout.EngineGrid,
		Formats:  []string{render.FormatJSON, render.FormatDOT},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Stats.NodeCount)
	assert.Equal(t, 2, res.Stats.EdgeCount)
	require.NotNil(t, res.Layout)
	assert.Equal(t, "grid", res.Layout.Engine)
	assert.Empty(t, res.Warnings)

	var exported topology.Topology
	require.NoError(t, json.Unmarshal(res.Artifacts[render.FormatJSON], &exported))
	assert.Equal(t, "Shop", exported.Meta.Name)
	for _, n := range exported.Nodes {
		require.NotNil(t, n.Layout, n.ID)
		assert.Nil(t, n.Position, "runtime position is folded into the layout hint")
	}

	dotSrc := string(res.Artifacts[render.FormatDOT])
	assert.Contains(t, dotSrc, "digraph")
	assert.Contains(t, dotSrc, "Storefront")
	assert.NotContains(t, dotSrc, "Checkout", "medium nodes are hidden at the high level")
}

func TestExecuteDefaultDocument(t *testing.T) {
	r := NewRunner(nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{Engine: layout.EngineGrid})
	require.NoError(t, err)
	assert.Positive(t, res.Stats.NodeCount)
	assert.NotEmpty(t, res.Engine.Topology().Meta.Name)
}

func TestExecuteViewOptions(t *testing.T) {
	r := NewRunner(nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{
		Location:   writeDoc(t),
		Engine:     layout.EngineGrid,
		SkipLayout: true,
		Focus:      "web",
		Search:     "cart",
		Select:     "checkout",
		Intent:     "depends-on",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Layout)

	st := res.Engine.State()
	assert.Equal(t, topology.LevelMedium, st.ActiveLevel)
	assert.Equal(t, "web", st.Drilldown.Medium)
	assert.Equal(t, "cart", st.SearchTerm)
	assert.Equal(t, "checkout", st.SelectedNodeID)
	assert.Equal(t, "depends-on", st.Filters.Intent)
}

func TestExecuteViewError(t *testing.T) {
	r := NewRunner(nil, quietLogger())

	_, err := r.Execute(context.Background(), Options{
		Location:   writeDoc(t),
		SkipLayout: true,
		Focus:      "missing",
	})
	assert.True(t, errs.Is(err, errs.ErrCodeNodeNotFound), "got %v", err)
}

func TestExecuteMissingFile(t *testing.T) {
	r := NewRunner(nil, quietLogger())

	_, err := r.Execute(context.Background(), Options{Location: filepath.Join(t.TempDir(), "nope.json")})
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound), "got %v", err)
}

func TestExecuteValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": "not a list"}`), 0o644))
	r := NewRunner(nil, quietLogger())

	_, err := r.Execute(context.Background(), Options{Location: path, Validate: true, SkipLayout: true})
	assert.True(t, errs.Is(err, errs.ErrCodeSchemaValidation), "got %v", err)

	_, err = r.Execute(context.Background(), Options{Location: path, SkipLayout: true})
	assert.NoError(t, err, "without validation the normalizer repairs the document")
}

func TestLayoutCache(t *testing.T) {
	store, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(store, quietLogger())
	defer r.Close()

	opts := Options{Location: writeDoc(t), Engine: layout.EngineGrid}
	first, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.LayoutHit)

	second, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.Equal(t, first.Layout.Nodes, second.Layout.Nodes)

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit)
}

func TestRenderSVGConverters(t *testing.T) {
	if testing.Short() {
		t.Skip("renders with graphviz")
	}
	r := NewRunner(nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Location: writeDoc(t),
		Engine:   layout.EngineGrid,
		Formats:  []string{render.FormatSVG},
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Artifacts[render.FormatSVG]), "<svg")
}
