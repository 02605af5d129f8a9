package topology

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoWidth(t *testing.T) {
	ptr := func(f float64) *float64 { return &f }

	tests := []struct {
		name string
		node Node
		want float64
	}{
		{"plain", Node{Label: "short"}, 260},
		{"explicit layout width", Node{Layout: &LayoutHint{Width: ptr(333)}}, 333},
		{"explicit size width", Node{Size: &Size{Width: 300}}, 300},
		{"long label", Node{Label: strings.Repeat("x", 32)}, 290},
		{"very long label capped", Node{Label: strings.Repeat("x", 80)}, 340},
		{"long summary", Node{Summary: strings.Repeat("s", 150)}, 340},
		{"many tags", Node{Tags: []string{"a", "b", "c", "d", "e"}}, 332},
		{"long tag", Node{Tags: []string{strings.Repeat("t", 20)}}, 296},
		{"metrics", Node{Metrics: make([]Metric, 4)}, 308},
		{"insights", Node{Insights: make([]Insight, 3)}, 308},
		{"clamped", Node{
			Label:   strings.Repeat("x", 80),
			Summary: strings.Repeat("s", 150),
			Tags:    []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"},
		}, 520},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			assert.Equal(t, tt.want, AutoWidth(&n))
		})
	}
}

func TestEnsureLayout(t *testing.T) {
	x, y, h := 40.0, 80.0, 150.0
	n := &Node{ID: "a", Layout: &LayoutHint{X: &x, Y: &y, Height: &h}}
	EnsureLayout(n)

	assert.Equal(t, &Point{X: 40, Y: 80}, n.Position)
	assert.Equal(t, &Size{Width: 260, Height: 150}, n.Size)

	bare := &Node{ID: "b"}
	EnsureLayout(bare)
	assert.Equal(t, &Point{}, bare.Position)
	assert.Equal(t, &Size{Width: 260, Height: 120}, bare.Size)
}

func TestExportRoundTripsPositions(t *testing.T) {
	topo := Default()
	topo.EnsureAll()
	gw := nodeByID(t, topo, "gateway")
	gw.Position = &Point{X: 101.6, Y: 49.4}
	gw.Layout = &LayoutHint{Fixed: true}

	exported, err := Export(topo)
	require.NoError(t, err)

	for _, n := range exported.Nodes {
		assert.Nil(t, n.Position, "position stripped from %s", n.ID)
		assert.Nil(t, n.Size, "size stripped from %s", n.ID)
	}
	egw := nodeByID(t, exported, "gateway")
	require.NotNil(t, egw.Layout)
	assert.True(t, egw.Layout.Fixed)
	assert.Equal(t, 102.0, *egw.Layout.X)
	assert.Equal(t, 49.0, *egw.Layout.Y)
	assert.Equal(t, 260.0, *egw.Layout.Width)
	assert.Equal(t, 120.0, *egw.Layout.Height)

	data, err := MarshalExport(topo)
	require.NoError(t, err)
	reimported, err := Parse(data)
	require.NoError(t, err)
	reimported.EnsureAll()
	assert.Equal(t, &Point{X: 102, Y: 49}, nodeByID(t, reimported, "gateway").Position)
	assert.True(t, nodeByID(t, reimported, "gateway").Pinned())

	// The source topology keeps its runtime fields.
	assert.Equal(t, 101.6, gw.Position.X)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "commerce-platform-reference-topology.json", ExportFilename(Default()))
	assert.Equal(t, "topology.json", ExportFilename(&Topology{Meta: Meta{Name: "!!!"}}))
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, WriteFile(Default(), path))
	topo, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, topo.Nodes, len(Default().Nodes))

	yamlPath := filepath.Join(dir, "doc.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("nodes:\n  - id: only\n"), 0o644))
	topo, err = ReadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, topo.Nodes, 1)
	assert.Equal(t, "only", topo.Nodes[0].ID)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestMarshalKeepsExtraFields(t *testing.T) {
	topo := mustParse(t, `{"nodes": [{"id": "a", "owner": "team-a", "rank": 3}], "edges": [{"from": "a", "to": "a", "weight": 2}]}`)
	data, err := Marshal(topo)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"owner": "team-a"`)
	assert.Contains(t, s, `"rank": 3`)
	assert.Contains(t, s, `"weight": 2`)
}
