// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Source loads raw CMS global documents.
type Source interface {
	GetGlobal(ctx context.Context, slug string) (json.RawMessage, error)
}

const (
	freshKeyPrefix = "global:fresh:"
	staleKeyPrefix = "global:stale:"

	// DefaultFetchTimeout bounds one shared upstream request.
	DefaultFetchTimeout = 10 * time.Second
)

// globalEntry is the cached form of a document.
type globalEntry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// GlobalCache caches global documents with a revalidation window.
//
// A fresh copy is served until ttl elapses; after that the next request
// refetches from the source. Concurrent misses for one slug share a single
// upstream request, detached from the caller that started it so one
// cancelled request does not fail the others. When the source fails, the last good copy (kept for
// staleTTL) is served instead, so a CMS outage does not revert edited
// content to the bundled defaults.
type GlobalCache struct {
	source       Source
	entries      *TypedCache[globalEntry]
	ttl          time.Duration
	staleTTL     time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	logger       *slog.Logger
	now          func() time.Time
}

// NewGlobalCache wraps source with a cache.
func NewGlobalCache(source Source, backend Cacher, ttl time.Duration, logger *slog.Logger) *GlobalCache {
	return &GlobalCache{
		source:   source,
		entries:  NewTypedCache[globalEntry](backend, ttl),
		ttl:      ttl,
		staleTTL:     7 * 24 * time.Hour,
		fetchTimeout: DefaultFetchTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// SetFetchTimeout changes the bound on shared upstream requests.
func (c *GlobalCache) SetFetchTimeout(d time.Duration) {
	if d > 0 {
		c.fetchTimeout = d
	}
}

// GetGlobal returns the document for slug, from cache when fresh.
func (c *GlobalCache) GetGlobal(ctx context.Context, slug string) (json.RawMessage, error) {
	if entry, ok := c.entries.Get(ctx, freshKeyPrefix+slug); ok {
		return entry.Data, nil
	}

	v, err := c.shared(ctx, "get:"+slug, func(fctx context.Context) (json.RawMessage, error) {
		return c.fetch(fctx, slug, true)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Refresh refetches slug from the source and replaces the cached copy.
// Unlike GetGlobal it never falls back to the stale copy.
func (c *GlobalCache) Refresh(ctx context.Context, slug string) error {
	_, err := c.shared(ctx, "refresh:"+slug, func(fctx context.Context) (json.RawMessage, error) {
		return c.fetch(fctx, slug, false)
	})
	return err
}

// shared runs fn once per key among concurrent callers. fn gets a context
// that keeps ctx's values but not its cancellation; each caller still
// stops waiting when its own ctx is done.
func (c *GlobalCache) shared(ctx context.Context, key string, fn func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return fn(fctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *GlobalCache) fetch(ctx context.Context, slug string, allowStale bool) (json.RawMessage, error) {
	data, err := c.source.GetGlobal(ctx, slug)
	if err != nil {
		if allowStale {
			if stale, ok := c.entries.Get(ctx, staleKeyPrefix+slug); ok {
				c.logger.Warn("cms fetch failed, serving stale global",
					"slug", slug, "fetched_at", stale.FetchedAt, "error", err)
				return stale.Data, nil
			}
		}
		return nil, err
	}

	entry := &globalEntry{Data: data, FetchedAt: c.now()}
	if err := c.entries.SetWithTTL(ctx, freshKeyPrefix+slug, entry, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "slug", slug, "error", err)
	}
	if err := c.entries.SetWithTTL(ctx, staleKeyPrefix+slug, entry, c.staleTTL); err != nil {
		c.logger.Warn("cache write failed", "slug", slug, "error", err)
	}
	return data, nil
}

// Invalidate drops the fresh copy of slug so the next read revalidates.
func (c *GlobalCache) Invalidate(ctx context.Context, slug string) error {
	return c.entries.Delete(ctx, freshKeyPrefix+slug)
}

// InvalidateAll drops every fresh copy.
func (c *GlobalCache) InvalidateAll(ctx context.Context) error {
	return c.entries.cache.DeleteByPrefix(ctx, freshKeyPrefix)
}

// Purge drops fresh and stale copies of slug. Used when a document is deleted.
func (c *GlobalCache) Purge(ctx context.Context, slug string) error {
	if err := c.entries.Delete(ctx, freshKeyPrefix+slug); err != nil {
		return err
	}
	return c.entries.Delete(ctx, staleKeyPrefix+slug)
}
