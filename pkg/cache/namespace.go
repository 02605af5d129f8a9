package cache

import (
	"context"
	"time"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/observability"
)

type namespaced struct {
	inner Cache
	name  string
}

// Namespace prefixes every key with name and reports hits, misses and
// writes to the cache hooks under that name. Closing the namespace does not
// close inner.
func Namespace(inner Cache, name string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &namespaced{inner: inner, name: name}
}

func (n *namespaced) key(k string) string { return n.name + ":" + k }

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := n.inner.Get(ctx, n.key(key))
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, n.name)
		} else {
			observability.Cache().OnCacheMiss(ctx, n.name)
		}
	}
	return data, ok, err
}

func (n *namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := n.inner.Set(ctx, n.key(key), data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, n.name, len(data))
	return nil
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.key(key))
}

func (n *namespaced) Close() error { return nil }
