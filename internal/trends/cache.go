package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache stores trend lists between runs so the scheduler's three daily runs
// do not hit every endpoint three times.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, items []string, ttl time.Duration) error
}

type memoryEntry struct {
	items   []string
	expires time.Time
}

// MemoryCache is an in-process Cache, used when no redis address is configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]string(nil), e.items...), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, items []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{items: append([]string(nil), items...), expires: m.now().Add(ttl)}
	return nil
}

// RedisCache keeps trend lists in redis as JSON arrays.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: "astroblog:trends:",
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var items []string
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false, fmt.Errorf("decode cached trends: %w", err)
	}
	return items, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, items []string, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode trends: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

type cachedSource struct {
	Source
	cache Cache
	ttl   time.Duration
}

// Cached wraps src so non-empty results are reused for ttl. Cache errors are
// logged and the source is queried directly.
func Cached(src Source, cache Cache, ttl time.Duration) Source {
	if cache == nil || ttl <= 0 {
		return src
	}
	return &cachedSource{Source: src, cache: cache, ttl: ttl}
}

func (c *cachedSource) Fetch(ctx context.Context) []string {
	key := c.Name()
	items, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("trend cache read failed", "source", key, "error", err)
	}
	if ok {
		return items
	}
	items = c.Source.Fetch(ctx)
	if len(items) == 0 {
		return items
	}
	if err := c.cache.Set(ctx, key, items, c.ttl); err != nil {
		slog.Warn("trend cache write failed", "source", key, "error", err)
	}
	return items
}
