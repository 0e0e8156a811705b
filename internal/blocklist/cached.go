// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package blocklist

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// DefaultCacheSize is the number of blocked addresses kept in memory.
const DefaultCacheSize = 4096

// CachedRegistry answers IsBlocked from an LRU of known-blocked addresses.
// Only positive answers are cached; entries are never removed from the
// registry, so a cached positive can never go stale.
type CachedRegistry struct {
	next  Registry
	cache *lru.Cache[string, struct{}]
}

// NewCachedRegistry wraps next with an LRU of the given size.
func NewCachedRegistry(next Registry, size int) (*CachedRegistry, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("create blocklist cache: %w", err)
	}
	return &CachedRegistry{next: next, cache: cache}, nil
}

// Block implements Registry.
func (c *CachedRegistry) Block(ctx context.Context, addr, reason string) (bool, error) {
	inserted, err := c.next.Block(ctx, addr, reason)
	if err != nil {
		return false, err
	}
	if a, nerr := normalizeAddress(addr); nerr == nil {
		c.cache.Add(a, struct{}{})
	}
	return inserted, nil
}

// IsBlocked implements Registry.
func (c *CachedRegistry) IsBlocked(ctx context.Context, addr string) (bool, error) {
	a, err := normalizeAddress(addr)
	if err != nil {
		return false, err
	}
	if c.cache.Contains(a) {
		metrics.RecordBlockCacheLookup(true)
		return true, nil
	}
	metrics.RecordBlockCacheLookup(false)

	blocked, err := c.next.IsBlocked(ctx, a)
	if err != nil {
		return false, err
	}
	if blocked {
		c.cache.Add(a, struct{}{})
	}
	return blocked, nil
}

// List implements Registry.
func (c *CachedRegistry) List(ctx context.Context) ([]models.BlockedEntity, error) {
	return c.next.List(ctx)
}
