// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package consent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Topics published by the consent store.
const (
	// TopicChanged carries the full new Record after every successful write.
	TopicChanged = "consent.changed"
	// TopicOpenDialog asks the consent dialog to (re)open. The payload is
	// the Preferences the dialog should start from.
	TopicOpenDialog = "consent.open_dialog"
)

// Event is delivered to subscribers.
type Event struct {
	Topic   string
	Payload any
}

// ListenerFunc handles an event. Returned errors are logged only.
type ListenerFunc func(ctx context.Context, ev Event) error

// Listener wraps a ListenerFunc with metadata.
type Listener struct {
	Name     string // Name of the listener for debugging
	Priority int    // Lower priority runs first (default: 0)
	Fn       ListenerFunc
}

// Bus is a synchronous publish/subscribe registry. A failing or panicking
// listener never stops delivery to the remaining listeners.
type Bus struct {
	listeners map[string][]Listener
	logger    *slog.Logger
	mu        sync.RWMutex
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

// Subscribe adds a listener for topic.
func (b *Bus) Subscribe(topic string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ls := append(b.listeners[topic], l)
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].Priority < ls[j].Priority })
	b.listeners[topic] = ls

	b.logger.Debug("consent listener subscribed", "topic", topic, "listener", l.Name, "priority", l.Priority)
}

// SubscribeFunc is a convenience wrapper around Subscribe.
func (b *Bus) SubscribeFunc(topic, name string, fn ListenerFunc) {
	b.Subscribe(topic, Listener{Name: name, Fn: fn})
}

// Unsubscribe removes every listener named name from topic.
func (b *Bus) Unsubscribe(topic, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := make([]Listener, 0, len(b.listeners[topic]))
	for _, l := range b.listeners[topic] {
		if l.Name != name {
			kept = append(kept, l)
		}
	}
	b.listeners[topic] = kept
}

// ListenerCount returns the number of listeners on topic.
func (b *Bus) ListenerCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[topic])
}

// Publish delivers payload to every listener of topic and returns the
// number of listeners that failed.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) int {
	b.mu.RLock()
	ls := append([]Listener(nil), b.listeners[topic]...)
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	failed := 0
	for _, l := range ls {
		if err := b.deliver(ctx, l, ev); err != nil {
			failed++
			b.logger.Warn("consent listener failed",
				"topic", topic,
				"listener", l.Name,
				"error", err,
			)
		}
	}
	return failed
}

func (b *Bus) deliver(ctx context.Context, l Listener, ev Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return l.Fn(ctx, ev)
}
