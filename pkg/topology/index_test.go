package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexLookups(t *testing.T) {
	topo := mustParse(t, `{
		"nodes": [
			{"id": "h"},
			{"id": "m1", "level": "medium", "parent": "h"},
			{"id": "m2", "level": "medium", "parent": "h"},
			{"id": "l", "level": "low", "parent": "m1"}
		],
		"edges": [
			{"id": "e1", "from": "h", "to": "m1"},
			{"from": "m1", "to": "m2"},
			{"id": "e1", "from": "m2", "to": "l"},
			{"from": "m1", "to": "ghost"}
		]
	}`)
	idx := NewIndex(topo)

	assert.Equal(t, "m1", idx.Node("m1").ID)
	assert.Nil(t, idx.Node("missing"))
	assert.True(t, idx.Has("h"))
	assert.False(t, idx.Has("ghost"))

	out := idx.Outgoing("m1")
	require.Len(t, out, 2)
	assert.Equal(t, "m2", out[0].To)
	assert.Equal(t, "ghost", out[1].To)
	assert.Len(t, idx.Incoming("l"), 1)
	assert.Empty(t, idx.Incoming("missing"))

	children := idx.ChildrenOf("h")
	require.Len(t, children, 2)
	assert.Equal(t, "m1", children[0].ID)
	assert.Equal(t, "m2", children[1].ID)
	assert.Empty(t, idx.ChildrenOf("l"))

	keys := make([]string, 0, 4)
	for _, ke := range idx.Edges() {
		keys = append(keys, ke.Key)
		assert.Equal(t, ke.Key, idx.Key(ke.Edge))
	}
	assert.Equal(t, []string{"e1", "m1__m2__1", "m2__l__2", "m1__ghost__3"}, keys)

	ancestors := idx.Ancestors("l")
	require.Len(t, ancestors, 2)
	assert.Equal(t, "m1", ancestors[0].ID)
	assert.Equal(t, "h", ancestors[1].ID)
	assert.Empty(t, idx.Ancestors("missing"))
}

func TestLevelHelpers(t *testing.T) {
	lvl, ok := ParseLevel(" medium ")
	assert.True(t, ok)
	assert.Equal(t, LevelMedium, lvl)

	_, ok = ParseLevel("HIGH")
	assert.False(t, ok)

	assert.Equal(t, 2, LevelLow.Depth())
	assert.Equal(t, -1, Level("x").Depth())

	parent, ok := LevelLow.Parent()
	assert.True(t, ok)
	assert.Equal(t, LevelMedium, parent)
	_, ok = LevelHigh.Parent()
	assert.False(t, ok)

	child, ok := LevelHigh.Child()
	assert.True(t, ok)
	assert.Equal(t, LevelMedium, child)
	_, ok = LevelLow.Child()
	assert.False(t, ok)
}
