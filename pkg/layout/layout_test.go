package layout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

func testTopology(t *testing.T) *topology.Topology {
	t.Helper()
	topo, err := topology.Parse([]byte(`{
		"nodes": [
			{"id": "api", "level": "high"},
			{"id": "db", "level": "high"},
			{"id": "queue", "level": "high", "layout": {"x": 10, "y": 20, "fixed": true}}
		],
		"edges": [
			{"from": "api", "to": "db"},
			{"from": "api", "to": "ghost"}
		]
	}`))
	require.NoError(t, err)
	return topo
}

func boxesN(n int) []Box {
	out := make([]Box, n)
	for i := range out {
		out[i] = Box{ID: string(rune('a' + i)), Width: 260, Height: 120}
	}
	return out
}

func TestGrid(t *testing.T) {
	res := Grid(boxesN(6))

	assert.Equal(t, "grid", res.Engine)
	assert.False(t, res.Fallback)
	assert.Equal(t, Rect{X: 120, Y: 120, Width: 260, Height: 120}, res.Nodes["a"])
	assert.Equal(t, Rect{X: 120, Y: 660, Width: 260, Height: 120}, res.Nodes["d"])
	assert.Equal(t, Rect{X: 440, Y: 120, Width: 260, Height: 120}, res.Nodes["e"])
	assert.Equal(t, float64(2*320+400), res.Width)
	assert.Equal(t, float64(4*180+400), res.Height)

	assert.Equal(t, res, Grid(boxesN(6)), "grid must be deterministic")
}

func TestGridEmpty(t *testing.T) {
	res := Grid(nil)
	assert.Empty(t, res.Nodes)
	assert.Equal(t, float64(MinWidth), res.Width)
	assert.Equal(t, float64(MinHeight), res.Height)
}

func TestInputsSkipDanglingEdges(t *testing.T) {
	boxes, links := Inputs(testTopology(t))

	require.Len(t, boxes, 3)
	assert.Equal(t, "api", boxes[0].ID)
	assert.Equal(t, float64(topology.DefaultNodeWidth), boxes[0].Width)
	assert.Equal(t, float64(topology.DefaultNodeHeight), boxes[0].Height)
	assert.Equal(t, []Link{{From: "api", To: "db"}}, links)
}

func TestRunUsesAdapter(t *testing.T) {
	topo := testTopology(t)
	a := AdapterFunc(func(_ context.Context, boxes []Box, _ []Link) (*Result, error) {
		res := &Result{Width: 1000, Height: 700, Nodes: map[string]Rect{}}
		for i, b := range boxes {
			res.Nodes[b.ID] = Rect{X: float64(i * 10), Y: 5, Width: b.Width, Height: b.Height}
		}
		return res, nil
	})

	res, err := Run(context.Background(), a, topo)
	require.NoError(t, err)
	assert.Equal(t, "func", res.Engine)
	assert.False(t, res.Fallback)
	assert.Equal(t, 10.0, res.Nodes["db"].X)
}

func TestRunFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
		ctx     func() (context.Context, context.CancelFunc)
	}{
		{
			name: "error",
			adapter: AdapterFunc(func(context.Context, []Box, []Link) (*Result, error) {
				return nil, errors.New("engine unavailable")
			}),
		},
		{
			name: "panic",
			adapter: AdapterFunc(func(context.Context, []Box, []Link) (*Result, error) {
				panic("boom")
			}),
		},
		{
			name: "incomplete",
			adapter: AdapterFunc(func(context.Context, []Box, []Link) (*Result, error) {
				return &Result{Nodes: map[string]Rect{"api": {}}}, nil
			}),
		},
		{
			name: "nil result",
			adapter: AdapterFunc(func(context.Context, []Box, []Link) (*Result, error) {
				return nil, nil
			}),
		},
		{
			name: "timeout",
			adapter: AdapterFunc(func(ctx context.Context, _ []Box, _ []Link) (*Result, error) {
				<-ctx.Done()
				time.Sleep(10 * time.Millisecond)
				return nil, ctx.Err()
			}),
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 20*time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			res, err := Run(ctx, tt.adapter, testTopology(t))
			require.Error(t, err)
			assert.Equal(t, errs.ErrCodeLayoutFailed, errs.GetCode(err))
			require.NotNil(t, res)
			assert.True(t, res.Fallback)
			assert.Equal(t, "grid", res.Engine)
			assert.Len(t, res.Nodes, 3)
		})
	}
}

func TestRunNilAdapter(t *testing.T) {
	res, err := Run(context.Background(), nil, testTopology(t))
	require.NoError(t, err)
	assert.Equal(t, "grid", res.Engine)
	assert.Len(t, res.Nodes, 3)
}

func TestRunEmptyTopology(t *testing.T) {
	topo := topology.Normalize(nil)
	res, err := Run(context.Background(), NewGraphviz(), topo)
	require.NoError(t, err)
	assert.Empty(t, res.Nodes)
}

func TestApplySkipsPinned(t *testing.T) {
	topo := testTopology(t)
	res := Grid([]Box{
		{ID: "api", Width: 300, Height: 140},
		{ID: "db", Width: 260, Height: 120},
		{ID: "queue", Width: 260, Height: 120},
	})

	Apply(topo, res)

	api := topo.Nodes[0]
	assert.Equal(t, &topology.Point{X: 120, Y: 120}, api.Position)
	assert.Equal(t, &topology.Size{Width: 300, Height: 140}, api.Size)

	queue := topo.Nodes[2]
	assert.Equal(t, &topology.Point{X: 10, Y: 20}, queue.Position)
}

func TestApplyNilResult(t *testing.T) {
	topo := testTopology(t)
	Apply(topo, nil)
	assert.Nil(t, topo.Nodes[0].Position)
}

func TestParsePlain(t *testing.T) {
	out := strings.Join([]string{
		"graph 1 10 3",
		`node n0 1.8056 1.5 3.6111 1.6667 "" solid box black lightgrey`,
		`node n1 5.0 2.0 2.0 1.0 "" solid box black lightgrey`,
		"edge n0 n1 4 3.6 1.5 4.0 1.6 4.2 1.8 4.0 2.0 solid black",
		"stop",
		"node n9 0 0 1 1",
	}, "\n")
	names := map[string]string{"n0": "api", "n1": "db"}
	boxes := []Box{{ID: "api", Width: 260, Height: 120}, {ID: "db", Width: 144, Height: 72}}

	res, err := parsePlain([]byte(out), names, boxes)
	require.NoError(t, err)

	assert.InDelta(t, 10*72+2*Margin, res.Width, 1e-9)
	assert.Equal(t, float64(MinHeight), res.Height)
	require.Len(t, res.Nodes, 2)

	api := res.Nodes["api"]
	assert.InDelta(t, 1.8056*72-130+Margin, api.X, 1e-9)
	assert.InDelta(t, (3-1.5)*72-60+Margin, api.Y, 1e-9)
	assert.Equal(t, 260.0, api.Width)

	db := res.Nodes["db"]
	assert.InDelta(t, 5.0*72-72+Margin, db.X, 1e-9)
	assert.InDelta(t, (3-2.0)*72-36+Margin, db.Y, 1e-9)
}

func TestParsePlainMalformed(t *testing.T) {
	_, err := parsePlain([]byte("node n0 x y"), map[string]string{"n0": "a"}, nil)
	assert.Error(t, err)

	_, err = parsePlain([]byte("stop\n"), nil, nil)
	assert.Error(t, err)
}

func TestGraphvizDOT(t *testing.T) {
	dot, names := NewGraphviz().toDOT(
		[]Box{{ID: `we"ird`, Width: 144, Height: 72}, {ID: "b", Width: 72, Height: 72}},
		[]Link{{From: `we"ird`, To: "b"}, {From: "b", To: "missing"}},
	)

	assert.Equal(t, map[string]string{"n0": `we"ird`, "n1": "b"}, names)
	assert.Contains(t, dot, "rankdir=LR;")
	assert.Contains(t, dot, "n0 [width=2.000, height=1.000];")
	assert.Contains(t, dot, "n0 -> n1;")
	assert.NotContains(t, dot, "missing")
	assert.NotContains(t, dot, `we"ird`)
}

func TestGraphvizLayout(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the dot engine")
	}
	res, err := Run(context.Background(), NewGraphviz(), testTopology(t))
	require.NoError(t, err)
	assert.Equal(t, "graphviz", res.Engine)
	require.Len(t, res.Nodes, 3)

	api, db := res.Nodes["api"], res.Nodes["db"]
	assert.Less(t, api.X, db.X, "rankdir=LR puts the source left of the target")
	assert.GreaterOrEqual(t, res.Width, float64(MinWidth))
	for id, r := range res.Nodes {
		assert.GreaterOrEqual(t, r.X, 0.0, id)
		assert.GreaterOrEqual(t, r.Y, 0.0, id)
	}
}

func TestNewAdapter(t *testing.T) {
	for name, want := range map[string]string{"": "graphviz", "dot": "graphviz", "graphviz": "graphviz", "grid": "grid"} {
		a, err := NewAdapter(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, a.Name(), name)
	}
	_, err := NewAdapter("force")
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))
}
