// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// top.go provides a Valkey-backed cache for the top-articles listing.
// The ranking query scans every article, so the serialized response is kept
// in Valkey for a short TTL and dropped whenever an article is created,
// updated, or deleted. View increments do NOT invalidate it: counts may
// drift within the TTL, which the listing tolerates.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// topKey is the Valkey key holding the serialized top-articles response.
	topKey = "articles:top"

	// DefaultTopTTL is how long the cached ranking stays valid.
	DefaultTopTTL = 1 * time.Minute
)

// TopArticles caches the serialized top-articles listing in Valkey.
type TopArticles struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTopArticles creates a top-articles cache backed by the given Valkey client.
func NewTopArticles(client *redis.Client, ttl time.Duration) *TopArticles {
	if ttl == 0 {
		ttl = DefaultTopTTL
	}
	return &TopArticles{client: client, ttl: ttl}
}

// Get retrieves the cached listing. Returns false on miss.
func (c *TopArticles) Get(ctx context.Context) ([]byte, bool) {
	val, err := c.client.Get(ctx, topKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("top cache get error", "error", err)
		return nil, false
	}
	slog.Debug("top cache hit")
	return val, true
}

// Set stores the serialized listing with the configured TTL.
func (c *TopArticles) Set(ctx context.Context, payload []byte) {
	if err := c.client.Set(ctx, topKey, payload, c.ttl).Err(); err != nil {
		slog.Warn("top cache set error", "error", err)
	}
}

// Invalidate drops the cached listing. Called on article mutation.
func (c *TopArticles) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, topKey).Err(); err != nil {
		slog.Warn("top cache invalidate error", "error", err)
	}
	slog.Debug("top cache invalidated")
}
