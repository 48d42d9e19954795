// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that integrates with the event log.
// It forwards logs at WARN level and above to the events table so that CMS outages,
// mail failures and consent storage problems can be audited after the fact.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/biemme2/biemme2-site/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	events *store.Events
	level  slog.Level  // Minimum level to forward to the event log (default: WARN)
	attrs  []slog.Attr // Attributes added through WithAttrs
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		events: store.NewEvents(db),
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:  h.inner.WithAttrs(attrs),
		events: h.events,
		level:  h.level,
		attrs:  merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithGroup(name),
		events: h.events,
		level:  h.level,
		attrs:  h.attrs,
	}
}

// writeToEventLog writes a log record to the event log.
// A background context is used so the event is kept even if the request was cancelled.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	_, _ = h.events.Create(context.Background(), store.CreateEventParams{
		Level:     levelToEventLevel(r.Level),
		Category:  h.extractCategory(r),
		Message:   r.Message,
		Metadata:  h.extractMetadata(r),
		CreatedAt: r.Time,
	})
}

func levelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return store.EventLevelError
	case level >= slog.LevelWarn:
		return store.EventLevelWarning
	default:
		return store.EventLevelInfo
	}
}

// extractCategory looks for a "category" attribute and otherwise infers one from the message.
func (h *EventLogHandler) extractCategory(r slog.Record) string {
	var category string
	for _, a := range h.attrs {
		if a.Key == "category" {
			category = a.Value.String()
		}
	}

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})

	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "consent"):
		return store.EventCategoryConsent
	case strings.Contains(msg, "contact") || strings.Contains(msg, "mail") || strings.Contains(msg, "captcha"):
		return store.EventCategoryContact
	case strings.Contains(msg, "cache"):
		return store.EventCategoryCache
	case strings.Contains(msg, "cms") || strings.Contains(msg, "global") || strings.Contains(msg, "content"):
		return store.EventCategoryContent
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return store.EventCategoryConfig
	default:
		return store.EventCategorySystem
	}
}

// extractMetadata collects all log attributes into a JSON object.
func (h *EventLogHandler) extractMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 && len(h.attrs) == 0 {
		return "{}"
	}

	meta := make(map[string]string, r.NumAttrs()+len(h.attrs))
	add := func(a slog.Attr) bool {
		if a.Key != "category" {
			meta[a.Key] = a.Value.String()
		}
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)

	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}
