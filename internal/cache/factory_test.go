package cache

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Memory(t *testing.T) {
	c, backend := New(DefaultConfig(), discardLogger())
	defer func() { _ = c.Close() }()

	if backend != BackendMemory {
		t.Errorf("backend = %q, want %q", backend, BackendMemory)
	}
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("cache type = %T, want *MemoryCache", c)
	}
}

func TestNew_RedisFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	cfg.DefaultTTL = time.Minute

	c, backend := New(cfg, discardLogger())
	defer func() { _ = c.Close() }()

	if backend != BackendMemory {
		t.Errorf("backend = %q, want fallback to %q", backend, BackendMemory)
	}
}
