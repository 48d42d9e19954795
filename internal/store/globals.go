// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrGlobalNotFound is returned when no document is stored for a slug.
var ErrGlobalNotFound = errors.New("global document not found")

// Global is a CMS singleton document persisted as raw JSON.
type Global struct {
	Slug      string
	Data      json.RawMessage
	UpdatedAt time.Time
}

// Globals is the repository for the globals table.
type Globals struct {
	db *sql.DB
}

// NewGlobals creates a globals repository.
func NewGlobals(db *sql.DB) *Globals {
	return &Globals{db: db}
}

// Get returns the raw document stored under slug.
func (g *Globals) Get(ctx context.Context, slug string) (Global, error) {
	var (
		doc  Global
		data string
	)
	err := g.db.QueryRowContext(ctx,
		`SELECT slug, data, updated_at FROM globals WHERE slug = ?`, slug,
	).Scan(&doc.Slug, &data, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Global{}, fmt.Errorf("%s: %w", slug, ErrGlobalNotFound)
	}
	if err != nil {
		return Global{}, fmt.Errorf("querying global %s: %w", slug, err)
	}
	doc.Data = json.RawMessage(data)
	return doc, nil
}

// Put inserts or replaces the document stored under slug.
// The payload must be a JSON object.
func (g *Globals) Put(ctx context.Context, slug string, data json.RawMessage) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("global %s is not a JSON object: %w", slug, err)
	}

	_, err := g.db.ExecContext(ctx,
		`INSERT INTO globals (slug, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		slug, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving global %s: %w", slug, err)
	}
	return nil
}

// PutIfAbsent stores data only when slug has no document yet.
// It reports whether a row was written.
func (g *Globals) PutIfAbsent(ctx context.Context, slug string, data json.RawMessage) (bool, error) {
	res, err := g.db.ExecContext(ctx,
		`INSERT INTO globals (slug, data, updated_at) VALUES (?, ?, ?) ON CONFLICT(slug) DO NOTHING`,
		slug, string(data), time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("seeding global %s: %w", slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("seeding global %s: %w", slug, err)
	}
	return n > 0, nil
}

// Delete removes the document stored under slug. Missing slugs are not an error.
func (g *Globals) Delete(ctx context.Context, slug string) error {
	if _, err := g.db.ExecContext(ctx, `DELETE FROM globals WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("deleting global %s: %w", slug, err)
	}
	return nil
}

// Slugs lists every stored slug in alphabetical order.
func (g *Globals) Slugs(ctx context.Context) ([]string, error) {
	rows, err := g.db.QueryContext(ctx, `SELECT slug FROM globals ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing globals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning global slug: %w", err)
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}
