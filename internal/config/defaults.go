package config

import "time"

// DefaultFiles are the config files looked up in the working directory, in
// order.
var DefaultFiles = []string{"topoviz.toml", "topoviz.yaml", "topoviz.yml"}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Layout: LayoutConfig{
			Engine:  "graphviz",
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			TTL:       24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Schema: SchemaConfig{
			Enabled: true,
		},
		GitHub: GitHubConfig{
			Limit: 50,
		},
	}
}
