package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/nodegraph/pkg/observability"
)

// Instrument wraps c so every Get and Set is reported to the registered
// observability cache hooks, labelled with the key kind ("artifact",
// "layout").
func Instrument(c Cache) Cache {
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func keyType(key string) string {
	// "<scope>:<kind>:<hash>" or "<kind>:<hash>"
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return key
	}
	return parts[len(parts)-2]
}
