// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubSource serves documents from a map and counts upstream calls.
type stubSource struct {
	mu    sync.Mutex
	docs  map[string]json.RawMessage
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (s *stubSource) GetGlobal(ctx context.Context, slug string) (json.RawMessage, error) {
	s.calls.Add(1)
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[slug]
	if !ok {
		return nil, errors.New("not found")
	}
	return doc, nil
}

func (s *stubSource) set(slug, doc string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc != "" {
		s.docs[slug] = json.RawMessage(doc)
	}
	s.err = err
}

func (s *stubSource) hold() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	return s.gate
}

// waitCalls blocks until the source saw n upstream calls.
func waitCalls(t *testing.T, s *stubSource, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.calls.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("upstream calls = %d, want %d", s.calls.Load(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestGlobalCache(t *testing.T, src *stubSource) (*GlobalCache, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	backend := NewSimpleMemoryCache(time.Hour)
	backend.now = clock.Now
	t.Cleanup(func() { _ = backend.Close() })

	gc := NewGlobalCache(src, backend, time.Hour, discardLogger())
	gc.now = clock.Now
	return gc, clock
}

func TestGlobalCache_ServesFreshCopy(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{"header": json.RawMessage(`{"v":1}`)}}
	gc, _ := newTestGlobalCache(t, src)
	ctx := context.Background()

	for range 3 {
		doc, err := gc.GetGlobal(ctx, "header")
		if err != nil {
			t.Fatalf("GetGlobal: %v", err)
		}
		if string(doc) != `{"v":1}` {
			t.Errorf("doc = %s", doc)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestGlobalCache_RevalidatesAfterTTL(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{"header": json.RawMessage(`{"v":1}`)}}
	gc, clock := newTestGlobalCache(t, src)
	ctx := context.Background()

	_, _ = gc.GetGlobal(ctx, "header")
	src.set("header", `{"v":2}`, nil)

	clock.Advance(30 * time.Minute)
	doc, _ := gc.GetGlobal(ctx, "header")
	if string(doc) != `{"v":1}` {
		t.Errorf("within TTL doc = %s, want cached v1", doc)
	}

	clock.Advance(31 * time.Minute)
	doc, _ = gc.GetGlobal(ctx, "header")
	if string(doc) != `{"v":2}` {
		t.Errorf("after TTL doc = %s, want v2", doc)
	}
}

func TestGlobalCache_ServesStaleOnUpstreamFailure(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{"footer": json.RawMessage(`{"v":1}`)}}
	gc, clock := newTestGlobalCache(t, src)
	ctx := context.Background()

	_, _ = gc.GetGlobal(ctx, "footer")
	src.set("", "", errors.New("connection refused"))
	clock.Advance(2 * time.Hour)

	doc, err := gc.GetGlobal(ctx, "footer")
	if err != nil {
		t.Fatalf("GetGlobal should serve stale copy, got %v", err)
	}
	if string(doc) != `{"v":1}` {
		t.Errorf("doc = %s", doc)
	}

	if err := gc.Refresh(ctx, "footer"); err == nil {
		t.Error("Refresh must report upstream failure")
	}
}

func TestGlobalCache_ErrorWithoutStaleCopy(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{}}
	gc, _ := newTestGlobalCache(t, src)

	if _, err := gc.GetGlobal(context.Background(), "home-page"); err == nil {
		t.Fatal("expected error when nothing is cached and upstream fails")
	}
}

func TestGlobalCache_InvalidateAndPurge(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{
		"header": json.RawMessage(`{"v":1}`),
		"footer": json.RawMessage(`{"v":1}`),
	}}
	gc, _ := newTestGlobalCache(t, src)
	ctx := context.Background()

	_, _ = gc.GetGlobal(ctx, "header")
	_, _ = gc.GetGlobal(ctx, "footer")
	src.set("header", `{"v":2}`, nil)
	src.set("footer", `{"v":2}`, nil)

	if err := gc.Invalidate(ctx, "header"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if doc, _ := gc.GetGlobal(ctx, "header"); string(doc) != `{"v":2}` {
		t.Errorf("header after Invalidate = %s", doc)
	}
	if doc, _ := gc.GetGlobal(ctx, "footer"); string(doc) != `{"v":1}` {
		t.Errorf("footer should still be cached, got %s", doc)
	}

	if err := gc.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	if doc, _ := gc.GetGlobal(ctx, "footer"); string(doc) != `{"v":2}` {
		t.Errorf("footer after InvalidateAll = %s", doc)
	}

	if err := gc.Purge(ctx, "footer"); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	src.set("", "", errors.New("down"))
	if _, err := gc.GetGlobal(ctx, "footer"); err == nil {
		t.Error("purged slug must not be served from the stale copy")
	}
}

func TestGlobalCache_CoalescesConcurrentMisses(t *testing.T) {
	src := &stubSource{
		docs: map[string]json.RawMessage{"home-page": json.RawMessage(`{"v":1}`)},
		gate: make(chan struct{}),
	}
	gc, _ := newTestGlobalCache(t, src)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gc.GetGlobal(ctx, "home-page"); err != nil {
				t.Errorf("GetGlobal: %v", err)
			}
		}()
	}

	// Let the goroutines pile up on the in-flight request before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	if n := src.calls.Load(); n > 2 {
		t.Errorf("upstream calls = %d, want concurrent misses coalesced", n)
	}
}

func TestGlobalCache_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{"home-page": json.RawMessage(`{"v":1}`)}}
	gate := src.hold()
	gc, _ := newTestGlobalCache(t, src)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := gc.GetGlobal(firstCtx, "home-page")
		firstErr <- err
	}()
	waitCalls(t, src, 1)

	type result struct {
		doc json.RawMessage
		err error
	}
	second := make(chan result, 1)
	go func() {
		doc, err := gc.GetGlobal(context.Background(), "home-page")
		second <- result{doc, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}

	close(gate)
	res := <-second
	if res.err != nil {
		t.Fatalf("waiting caller err = %v, want document", res.err)
	}
	if string(res.doc) != `{"v":1}` {
		t.Errorf("doc = %s", res.doc)
	}
}

func TestGlobalCache_FetchTimeout(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{"footer": json.RawMessage(`{"v":1}`)}}
	gate := src.hold()
	defer close(gate)
	gc, _ := newTestGlobalCache(t, src)
	gc.SetFetchTimeout(20 * time.Millisecond)

	if _, err := gc.GetGlobal(context.Background(), "footer"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestGlobalCache_GetDuringFailingRefreshServesStale(t *testing.T) {
	src := &stubSource{docs: map[string]json.RawMessage{"header": json.RawMessage(`{"v":1}`)}}
	gc, clock := newTestGlobalCache(t, src)
	ctx := context.Background()

	if _, err := gc.GetGlobal(ctx, "header"); err != nil {
		t.Fatalf("GetGlobal: %v", err)
	}
	clock.Advance(2 * time.Hour)
	src.set("", "", errors.New("connection refused"))
	gate := src.hold()

	refreshErr := make(chan error, 1)
	go func() { refreshErr <- gc.Refresh(ctx, "header") }()
	waitCalls(t, src, 2)

	got := make(chan json.RawMessage, 1)
	go func() {
		doc, err := gc.GetGlobal(ctx, "header")
		if err != nil {
			t.Errorf("GetGlobal during refresh: %v", err)
		}
		got <- doc
	}()
	waitCalls(t, src, 3)
	close(gate)

	if err := <-refreshErr; err == nil {
		t.Error("Refresh must report upstream failure")
	}
	if doc := <-got; string(doc) != `{"v":1}` {
		t.Errorf("doc = %s, want stale copy", doc)
	}
}
