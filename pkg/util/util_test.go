package util

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestDeepCloneIsolatesNestedValues(t *testing.T) {
	inner := orderedmap.New[string, any]()
	inner.Set("b", 2.0)
	inner.Set("a", []any{"x", map[string]any{"deep": true}})
	src := map[string]any{"inner": inner, "list": []any{1.0, "two"}}

	out, ok := DeepClone(src).(map[string]any)
	require.True(t, ok)

	cloned := out["inner"].(*orderedmap.OrderedMap[string, any])
	cloned.Set("b", 3.0)
	a, _ := cloned.Get("a")
	nested := a.([]any)
	nested[1].(map[string]any)["deep"] = false
	out["list"].([]any)[0] = 9.0

	b, _ := inner.Get("b")
	assert.Equal(t, 2.0, b)
	orig, _ := inner.Get("a")
	assert.Equal(t, true, orig.([]any)[1].(map[string]any)["deep"])
	assert.Equal(t, 1.0, src["list"].([]any)[0])

	var keys []string
	for pair := cloned.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"b", "a"}, keys)
}

func TestDeepCloneStructsBecomeTrees(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	out := DeepClone(point{X: 4})
	assert.Equal(t, map[string]any{"x": 4.0}, out)
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"depends-on", "Depends On"},
		{"pull_request", "Pull Request"},
		{"link", "Link"},
		{"  spaced__out--words ", "Spaced Out Words"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleCase(tt.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"FDS_TMS Reference Topology", "fds-tms-reference-topology"},
		{"  --Hello, World!--  ", "hello-world"},
		{"already-slugged", "already-slugged"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestDebounceCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := Debounce(20*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebounceStop(t *testing.T) {
	var calls atomic.Int32
	d := Debounce(50*time.Millisecond, func() { calls.Add(1) })

	assert.False(t, d.Stop())
	d.Trigger()
	assert.True(t, d.Stop())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
