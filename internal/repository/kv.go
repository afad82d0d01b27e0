package repository

import (
    "context"
    "log"
    "sync"
    "time"

    "github.com/redis/go-redis/v9"
)

// KV is the small key-value surface the settings and checkout repositories
// need: JSON blobs under string keys with optional expiry, plus a counter
// for the refresh rate window.  Redis backs it in normal deployments; when
// no Redis is reachable an in-process map takes over and only durability
// across restarts is lost.
type KV interface {
    Get(ctx context.Context, key string) ([]byte, bool, error)
    Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
    Del(ctx context.Context, key string) error
    Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// NewKV wraps the given Redis client, or falls back to the in-memory store
// when the client is nil (connection failed at startup).
func NewKV(client *redis.Client) KV {
    if client == nil {
        log.Printf("kv: no redis client, using in-memory store")
        return NewMemoryKV()
    }
    return &redisKV{client: client}
}

type redisKV struct {
    client *redis.Client
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
    val, err := r.client.Get(ctx, key).Bytes()
    if err == redis.Nil {
        return nil, false, nil
    }
    if err != nil {
        return nil, false, err
    }
    return val, true, nil
}

func (r *redisKV) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
    return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *redisKV) Del(ctx context.Context, key string) error {
    return r.client.Del(ctx, key).Err()
}

func (r *redisKV) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
    n, err := r.client.Incr(ctx, key).Result()
    if err != nil {
        return 0, err
    }
    // Only the first increment of a window sets the expiry.
    if n == 1 && ttl > 0 {
        _ = r.client.Expire(ctx, key, ttl).Err()
    }
    return n, nil
}

// memoryKV is the degraded single-process fallback.
type memoryKV struct {
    mu    sync.Mutex
    items map[string]memItem
}

type memItem struct {
    val     []byte
    count   int64
    expires time.Time
}

// NewMemoryKV returns an empty in-process store.  Also used directly by
// tests.
func NewMemoryKV() KV {
    return &memoryKV{items: make(map[string]memItem)}
}

func (m *memoryKV) get(key string) (memItem, bool) {
    it, ok := m.items[key]
    if !ok {
        return memItem{}, false
    }
    if !it.expires.IsZero() && time.Now().After(it.expires) {
        delete(m.items, key)
        return memItem{}, false
    }
    return it, true
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    it, ok := m.get(key)
    if !ok {
        return nil, false, nil
    }
    return append([]byte(nil), it.val...), true, nil
}

func (m *memoryKV) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    it := memItem{val: append([]byte(nil), val...)}
    if ttl > 0 {
        it.expires = time.Now().Add(ttl)
    }
    m.items[key] = it
    return nil
}

func (m *memoryKV) Del(_ context.Context, key string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    delete(m.items, key)
    return nil
}

func (m *memoryKV) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    it, ok := m.get(key)
    if !ok {
        it = memItem{}
        if ttl > 0 {
            it.expires = time.Now().Add(ttl)
        }
    }
    it.count++
    m.items[key] = it
    return it.count, nil
}
