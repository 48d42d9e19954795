// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock returns a controllable time source for expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", val)
	}

	has, err := cache.Has(ctx, "key1")
	if err != nil || !has {
		t.Errorf("Has(key1) = (%v, %v), want (true, nil)", has, err)
	}

	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	clock := newFakeClock()
	cache := NewSimpleMemoryCache(time.Minute)
	cache.now = clock.Now
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "default", []byte("v"), 0)
	_ = cache.Set(ctx, "short", []byte("v"), 10*time.Second)

	clock.Advance(30 * time.Second)
	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("short TTL key should expire, got %v", err)
	}
	if _, err := cache.Get(ctx, "default"); err != nil {
		t.Errorf("default TTL key should still exist: %v", err)
	}

	clock.Advance(time.Minute)
	if has, _ := cache.Has(ctx, "default"); has {
		t.Error("default TTL key should expire after a minute")
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	cache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "global:fresh:header", []byte("1"), 0)
	_ = cache.Set(ctx, "global:fresh:footer", []byte("2"), 0)
	_ = cache.Set(ctx, "global:stale:header", []byte("3"), 0)

	if err := cache.DeleteByPrefix(ctx, "global:fresh:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}

	for _, key := range []string{"global:fresh:header", "global:fresh:footer"} {
		if has, _ := cache.Has(ctx, key); has {
			t.Errorf("%s should be deleted", key)
		}
	}
	if has, _ := cache.Has(ctx, "global:stale:header"); !has {
		t.Error("global:stale:header should survive")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), 0)
	_ = cache.Set(ctx, "b", []byte("22"), 0)

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	stats := cache.Stats()
	if stats.Items != 0 || stats.Size != 0 {
		t.Errorf("after Clear: items=%d size=%d", stats.Items, stats.Size)
	}
}

func TestMemoryCache_MaxSizeEvictsOldest(t *testing.T) {
	clock := newFakeClock()
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, MaxSize: 2})
	cache.now = clock.Now
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "first", []byte("1"), 0)
	clock.Advance(time.Second)
	_ = cache.Set(ctx, "second", []byte("2"), 0)
	clock.Advance(time.Second)
	_ = cache.Set(ctx, "third", []byte("3"), 0)

	if has, _ := cache.Has(ctx, "first"); has {
		t.Error("oldest entry should be evicted")
	}
	for _, key := range []string{"second", "third"} {
		if has, _ := cache.Has(ctx, key); !has {
			t.Errorf("%s should be present", key)
		}
	}

	// Overwriting an existing key never evicts.
	_ = cache.Set(ctx, "third", []byte("33"), 0)
	if has, _ := cache.Has(ctx, "second"); !has {
		t.Error("overwrite should not evict other entries")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "key", []byte("value"), 0)
	_, _ = cache.Get(ctx, "key")
	_, _ = cache.Get(ctx, "key")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Size != 5 {
		t.Errorf("Size = %d, want 5", stats.Size)
	}
	if stats.HitRate < 66 || stats.HitRate > 67 {
		t.Errorf("HitRate = %v, want ~66.7", stats.HitRate)
	}

	cache.ResetStats()
	if s := cache.Stats(); s.Hits != 0 || s.Misses != 0 || s.Sets != 0 {
		t.Errorf("after ResetStats: %+v", s)
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	cache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	original := []byte("original")
	_ = cache.Set(ctx, "key", original, 0)
	original[0] = 'X'

	got, _ := cache.Get(ctx, "key")
	if string(got) != "original" {
		t.Errorf("stored value was mutated: %s", got)
	}
	got[0] = 'Y'
	again, _ := cache.Get(ctx, "key")
	if string(again) != "original" {
		t.Errorf("returned value aliases storage: %s", again)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewSimpleMemoryCache(time.Hour)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%5)
			for range 50 {
				_ = cache.Set(ctx, key, []byte("v"), 0)
				_, _ = cache.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if items := cache.Stats().Items; items != 5 {
		t.Errorf("Items = %d, want 5", items)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Millisecond})
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Second close is a no-op.
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, err := cache.Get(ctx, "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close: %v", err)
	}
	if err := cache.Set(ctx, "key", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close: %v", err)
	}
}
