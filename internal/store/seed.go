// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
)

// SeedGlobals writes the given documents into the globals table.
// Existing documents are kept unless overwrite is set, so editor changes
// survive restarts with seeding enabled.
func SeedGlobals(ctx context.Context, db *sql.DB, docs map[string]json.RawMessage, overwrite bool) error {
	globals := NewGlobals(db)

	slugs := make([]string, 0, len(docs))
	for slug := range docs {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		if overwrite {
			if err := globals.Put(ctx, slug, docs[slug]); err != nil {
				return err
			}
			slog.Info("seeded global", "slug", slug)
			continue
		}

		written, err := globals.PutIfAbsent(ctx, slug, docs[slug])
		if err != nil {
			return fmt.Errorf("seeding globals: %w", err)
		}
		if written {
			slog.Info("seeded global", "slug", slug)
		} else {
			slog.Debug("global already present, skipping seed", "slug", slug)
		}
	}

	return nil
}
