package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/cache"
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

const jsonDoc = `{"meta":{"name":"Shop"},"nodes":[{"id":"api","level":"high"}]}`

const yamlDoc = `
meta:
  name: Shop
nodes:
  - id: api
    level: high
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		location string
		data     string
		want     Format
	}{
		{"topo.yaml", "", FormatYAML},
		{"TOPO.YML", "", FormatYAML},
		{"topo.json", "meta: {}", FormatJSON},
		{"https://example.com/topo.yml?raw=1", "", FormatYAML},
		{"-", "  {\"nodes\": []}", FormatJSON},
		{"-", "meta:\n  name: x", FormatYAML},
		{"-", "", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.location+"/"+string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.location, []byte(tt.data)))
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"a.json": jsonDoc, "b.yaml": yamlDoc} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		topo, err := NewLoader(nil, 0).Topology(context.Background(), path)
		require.NoError(t, err, name)
		assert.Equal(t, "Shop", topo.Meta.Name, name)
		require.Len(t, topo.Nodes, 1, name)
		assert.Equal(t, "api", topo.Nodes[0].ID, name)
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(nil, 0)
	ctx := context.Background()

	_, err := l.Load(ctx, "")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidPath))

	_, err = l.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	_, err = l.Load(ctx, path)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidJSON))
}

func TestLoadStdin(t *testing.T) {
	l := NewLoader(nil, 0)
	l.stdin = strings.NewReader(yamlDoc)

	doc, err := l.Load(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, doc.Format)
	assert.Equal(t, Stdin, doc.Location)
}

func TestLoadRemoteCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(jsonDoc))
	}))
	defer server.Close()

	store, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	l := NewLoader(store, time.Hour)
	ctx := context.Background()

	for range 2 {
		topo, err := l.Topology(ctx, server.URL+"/topo.json")
		require.NoError(t, err)
		assert.Equal(t, "Shop", topo.Meta.Name)
	}
	assert.EqualValues(t, 1, calls.Load())

	l.Refresh = true
	_, err = l.Load(ctx, server.URL+"/topo.json")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestLoadRemoteNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewLoader(nil, 0).Load(context.Background(), server.URL+"/missing.json")
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.json"))
	assert.True(t, IsRemote("http://localhost:8080/a"))
	assert.False(t, IsRemote("./a.json"))
	assert.False(t, IsRemote("file:///tmp/a.json"))
	assert.False(t, IsRemote("C:\\topo.json"))
}
