package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// TOMLParser implements koanf.Parser with BurntSushi/toml.
type TOMLParser struct{}

// TOML returns a koanf parser for TOML files.
func TOML() *TOMLParser { return &TOMLParser{} }

// Unmarshal decodes TOML into a nested map.
func (p *TOMLParser) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (p *TOMLParser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// durations are written as strings so the file reads back through koanf.
type tomlDoc struct {
	Server ServerConfig `toml:"server"`
	Layout tomlLayout   `toml:"layout"`
	Cache  tomlCache    `toml:"cache"`
	Schema SchemaConfig `toml:"schema"`
	GitHub GitHubConfig `toml:"github"`
}

type tomlLayout struct {
	Engine  string `toml:"engine"`
	Timeout string `toml:"timeout"`
}

type tomlCache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir,omitempty"`
	TTL           string `toml:"ttl"`
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
}

func encodeTOML(c *Config) ([]byte, error) {
	doc := tomlDoc{
		Server: c.Server,
		Layout: tomlLayout{Engine: c.Layout.Engine, Timeout: c.Layout.Timeout.String()},
		Cache: tomlCache{
			Backend:       c.Cache.Backend,
			Dir:           c.Cache.Dir,
			TTL:           c.Cache.TTL.String(),
			RedisAddr:     c.Cache.RedisAddr,
			RedisPassword: c.Cache.RedisPassword,
			RedisDB:       c.Cache.RedisDB,
		},
		Schema: c.Schema,
		GitHub: c.GitHub,
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
