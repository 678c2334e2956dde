// Package cache is an optional Redis layer for listing reads and token revocation.
// Every operation degrades to a miss when Redis is absent or unreachable.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by this service.
const DefaultNamespace = "estate:"

// Options selects the Redis server. An empty Addr disables the cache.
type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// Client wraps redis.Client and swallows connectivity errors.
// A nil *Client is valid and behaves as an always-empty cache.
type Client struct {
	rdb       *redis.Client
	namespace string
}

// New creates a Redis-backed client, or returns nil when opts.Addr is empty.
func New(opts Options) *Client {
	if opts.Addr == "" {
		return nil
	}
	ns := opts.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		namespace: ns,
	}
}

// Enabled reports whether a Redis server is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Ping checks connectivity. A disabled cache reports no error.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) key(k string) string {
	return c.namespace + k
}

// Get returns the raw value, or nil on a miss or any Redis failure.
func (c *Client) Get(ctx context.Context, key string) []byte {
	if !c.Enabled() {
		return nil
	}
	res, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil
	}
	return res
}

// Set stores value for ttl. Failures are dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !c.Enabled() || ttl <= 0 {
		return
	}
	_ = c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}

// Exists reports whether key is present. A Redis failure reads as absent.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if !c.Enabled() {
		return false
	}
	n, err := c.rdb.Exists(ctx, c.key(key)).Result()
	return err == nil && n > 0
}

// Delete removes keys. Failures are dropped.
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	_ = c.rdb.Del(ctx, full...).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// GetJSON decodes the cached value at key into a T. It reports false on a
// miss or when the stored payload no longer decodes.
func GetJSON[T any](ctx context.Context, c *Client, key string) (T, bool) {
	var out T
	data := c.Get(ctx, key)
	if data == nil {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}

// SetJSON encodes v and stores it under key for ttl.
func SetJSON(ctx context.Context, c *Client, key string, v any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, payload, ttl)
}
