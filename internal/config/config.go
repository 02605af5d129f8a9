// Package config loads topoviz settings from built-in defaults, an optional
// TOML or YAML file and TOPOVIZ_* environment variables, in that order.
//
//	TOPOVIZ_LAYOUT_ENGINE=grid        -> layout.engine
//	TOPOVIZ_CACHE_REDIS_ADDR=db:6379  -> cache.redis_addr
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TOPOVIZ_"

// Load reads path over the defaults and applies environment overrides. An
// empty path looks for one of DefaultFiles in the working directory; a
// missing default file is not an error, a missing named file is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path == "" {
		path = findDefault()
	} else if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.New(errs.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "reading config %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decoding config")
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	return cfg, nil
}

// envKey maps TOPOVIZ_SECTION_SOME_KEY to section.some_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}

func findDefault() string {
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "config %s: unsupported format (use .toml, .yaml or .yml)", path)
}

// Save writes the configuration to path as TOML or YAML, by extension.
func (c *Config) Save(path string) error {
	data, err := c.Encode(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Encode renders the configuration as "toml" or "yaml" ("yml" is accepted).
func (c *Config) Encode(format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "toml":
		data, err = encodeTOML(c)
	case "yaml", "yml":
		data, err = yamlv3.Marshal(c)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported config format %q (use toml or yaml)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

var validBackends = map[string]bool{
	CacheFile:  true,
	CacheRedis: true,
	CacheNone:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if _, err := layout.NewAdapter(c.Layout.Engine); err != nil {
		return err
	}
	if c.Layout.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "layout.timeout must be non-negative")
	}
	if !validBackends[c.Cache.Backend] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid cache.backend %q: must be one of file, redis, none", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache.ttl must be non-negative")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errs.New(errs.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidInput, "server.addr is required")
	}
	if c.GitHub.Limit < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "github.limit must be non-negative")
	}
	return nil
}
