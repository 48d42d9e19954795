// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event log levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event log categories.
const (
	EventCategorySystem  = "system"
	EventCategoryContent = "content"
	EventCategoryCache   = "cache"
	EventCategoryConsent = "consent"
	EventCategoryContact = "contact"
	EventCategoryConfig  = "config"
)

// Event is a row of the event log.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEventParams holds the values of a new event log row.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// Events is the repository for the events table.
type Events struct {
	db *sql.DB
}

// NewEvents creates an event log repository.
func NewEvents(db *sql.DB) *Events {
	return &Events{db: db}
}

// Create appends an event to the log.
func (e *Events) Create(ctx context.Context, arg CreateEventParams) (int64, error) {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	if arg.CreatedAt.IsZero() {
		arg.CreatedAt = time.Now()
	}
	res, err := e.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("creating event: %w", err)
	}
	return res.LastInsertId()
}

// ListByCategory returns the newest events of a category, newest first.
func (e *Events) ListByCategory(ctx context.Context, category string, limit int) ([]Event, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, level, category, message, metadata, created_at
		 FROM events WHERE category = ? ORDER BY id DESC LIMIT ?`,
		category, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Level, &ev.Category, &ev.Message, &ev.Metadata, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteOlderThan prunes events created before cutoff and returns the number removed.
func (e *Events) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return res.RowsAffected()
}
