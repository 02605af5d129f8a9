package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "graphviz", cfg.Layout.Engine)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.True(t, cfg.Schema.Enabled)
	assert.Equal(t, 50, cfg.GitHub.Limit)
	require.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "topoviz.toml", `
[server]
addr = ":9000"
watch = true

[layout]
engine = "grid"
timeout = "3s"

[cache]
backend = "none"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.True(t, cfg.Server.Watch)
	assert.Equal(t, "grid", cfg.Layout.Engine)
	assert.Equal(t, 3*time.Second, cfg.Layout.Timeout)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL, "unset keys keep their defaults")
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "topoviz.yaml", "cache:\n  backend: redis\n  redis_addr: cache:6379\n  redis_db: 2\ngithub:\n  limit: 10\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Cache.RedisDB)
	assert.Equal(t, 10, cfg.GitHub.Limit)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "topoviz.toml", "[layout]\nengine = \"graphviz\"\n")
	t.Setenv("TOPOVIZ_LAYOUT_ENGINE", "grid")
	t.Setenv("TOPOVIZ_SERVER_ALLOW_ALL_ORIGINS", "true")
	t.Setenv("TOPOVIZ_GITHUB_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "grid", cfg.Layout.Engine)
	assert.True(t, cfg.Server.AllowAllOrigins)
	assert.Equal(t, "from-env", cfg.GitHub.Token)
}

func TestLoadGitHubTokenFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "gh-token")
	cfg, err := Load(writeFile(t, "topoviz.yaml", "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "gh-token", cfg.GitHub.Token)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound), "got %v", err)

	_, err = Load(writeFile(t, "topoviz.ini", "x=1"))
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported), "got %v", err)

	_, err = Load(writeFile(t, "topoviz.toml", "[layout\n"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"out.toml", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			original := DefaultConfig()
			original.Layout.Engine = "grid"
			original.Layout.Timeout = 5 * time.Second
			original.Cache.Backend = CacheNone
			original.GitHub.Limit = 7

			require.NoError(t, original.Save(path))
			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, original.Layout, loaded.Layout)
			assert.Equal(t, original.Cache.Backend, loaded.Cache.Backend)
			assert.Equal(t, original.Cache.TTL, loaded.Cache.TTL)
			assert.Equal(t, 7, loaded.GitHub.Limit)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"engine", func(c *Config) { c.Layout.Engine = "neato" }},
		{"backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }},
		{"timeout", func(c *Config) { c.Layout.Timeout = -time.Second }},
		{"addr", func(c *Config) { c.Server.Addr = "" }},
		{"limit", func(c *Config) { c.GitHub.Limit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "cache.redis_addr", envKey("TOPOVIZ_CACHE_REDIS_ADDR"))
	assert.Equal(t, "layout.engine", envKey("TOPOVIZ_LAYOUT_ENGINE"))
	assert.Equal(t, "debug", envKey("TOPOVIZ_DEBUG"))
}
