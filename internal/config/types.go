package config

import "time"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the topoviz configuration, read from topoviz.toml or
// topoviz.yaml.
type Config struct {
	Server ServerConfig `toml:"server" yaml:"server" koanf:"server"`
	Layout LayoutConfig `toml:"layout" yaml:"layout" koanf:"layout"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache" koanf:"cache"`
	Schema SchemaConfig `toml:"schema" yaml:"schema" koanf:"schema"`
	GitHub GitHubConfig `toml:"github" yaml:"github" koanf:"github"`
}

// ServerConfig configures `topoviz serve`.
type ServerConfig struct {
	Addr            string `toml:"addr" yaml:"addr" koanf:"addr"`
	AllowAllOrigins bool   `toml:"allow_all_origins" yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Watch           bool   `toml:"watch" yaml:"watch" koanf:"watch"`
}

// LayoutConfig selects the layout engine.
type LayoutConfig struct {
	Engine  string        `toml:"engine" yaml:"engine" koanf:"engine"`
	Timeout time.Duration `toml:"timeout" yaml:"timeout" koanf:"timeout"`
}

// CacheConfig selects where fetched documents and layouts are cached.
type CacheConfig struct {
	Backend       string        `toml:"backend" yaml:"backend" koanf:"backend"`
	Dir           string        `toml:"dir" yaml:"dir" koanf:"dir"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl" koanf:"ttl"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr" koanf:"redis_addr"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password" koanf:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db" koanf:"redis_db"`
}

// SchemaConfig controls JSON Schema validation of loaded documents.
type SchemaConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled" koanf:"enabled"`
}

// GitHubConfig configures the GitHub exporter.
type GitHubConfig struct {
	Token string `toml:"token" yaml:"token" koanf:"token"`
	Limit int    `toml:"limit" yaml:"limit" koanf:"limit"`
}
