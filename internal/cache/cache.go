// Package cache stores rendered dashboard views keyed by their
// normalized filter state.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/bluele/gcache"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

// Cache is a byte cache. Misses and backend failures both report ok=false.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Options selects and sizes the backend.
type Options struct {
	Size          int
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New returns a Redis-backed cache when a Redis address is set and
// reachable, and an in-process LRU otherwise.
func New(ctx context.Context, opts Options, logger *slog.Logger) Cache {
	if opts.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unavailable, using memory cache", "addr", opts.RedisAddr, "error", err)
			client.Close()
		} else {
			logger.Info("view cache", "backend", "redis", "addr", opts.RedisAddr, "ttl", opts.TTL)
			return NewRedis(client, opts.TTL, logger)
		}
	}
	logger.Info("view cache", "backend", "memory", "size", opts.Size, "ttl", opts.TTL)
	return NewMemory(opts.Size, opts.TTL)
}

// Memory is an in-process LRU with per-entry expiry.
type Memory struct {
	lru gcache.Cache
}

// NewMemory creates an LRU holding at most size entries for ttl each.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = 1
	}
	b := gcache.New(size).LRU()
	if ttl > 0 {
		b = b.Expiration(ttl)
	}
	return &Memory{lru: b.Build()}
}

// Get retrieves a cached value if it exists and hasn't expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, err := m.lru.Get(key)
	if err != nil {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Set stores a value in the cache.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.lru.Set(key, value)
}

// Redis shares cached views between processes through a Redis server.
type Redis struct {
	c      *gocache.Cache[string]
	logger *slog.Logger
}

// NewRedis wraps client. Entries expire after ttl.
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	s := redisstore.NewRedis(client, store.WithExpiration(ttl))
	return &Redis{c: gocache.New[string](s), logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := r.c.Get(ctx, key)
	if err != nil {
		// A miss surfaces as an error too.
		r.logger.Debug("view cache miss", "key", key, "error", err)
		return nil, false
	}
	return []byte(v), true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.c.Set(ctx, key, string(value)); err != nil {
		r.logger.Warn("view cache set failed", "key", key, "error", err)
	}
}
