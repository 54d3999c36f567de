// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached lists.
	listKeyPrefix = "list:"

	// DefaultListTTL is how long a cached list lives without a write.
	DefaultListTTL = 5 * time.Minute
)

// Cached list names.
const (
	ListAdmins     = "admins"
	ListPlatforms  = "platforms"
	ListCategories = "categories"
	ListSoftware   = "software"
)

// ListCache stores full entity lists as JSON. A nil *ListCache is valid and
// behaves as an always-missing cache. Errors are logged and treated as misses.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Load decodes the cached list name into dst. Reports false on a miss.
func (c *ListCache) Load(ctx context.Context, name string, dst any) bool {
	if c == nil {
		return false
	}
	val, err := c.client.Get(ctx, listKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("list cache get error", "list", name, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("list cache decode error", "list", name, "error", err)
		return false
	}
	slog.Debug("list cache hit", "list", name)
	return true
}

// Store caches v as the list name.
func (c *ListCache) Store(ctx context.Context, name string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("list cache encode error", "list", name, "error", err)
		return
	}
	if err := c.client.Set(ctx, listKeyPrefix+name, data, c.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "list", name, "error", err)
	}
}

// Invalidate drops the given lists. It runs after a committed write, so it
// ignores cancellation of ctx and only honours its values.
func (c *ListCache) Invalidate(ctx context.Context, names ...string) {
	if c == nil || len(names) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = listKeyPrefix + n
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("list cache invalidate error", "lists", names, "error", err)
	}
}
