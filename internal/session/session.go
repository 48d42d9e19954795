// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the session manager used for flash messages
// after form posts.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// CookieName is the session cookie. It is a technical cookie and needs no
// consent.
const CookieName = "biemme2_session"

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 2 * time.Hour
	sm.IdleTimeout = 30 * time.Minute
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	sm.Cookie.Persist = false

	return sm
}

// PutFlash stores v under key until the next PopFlash.
func PutFlash(sm *scs.SessionManager, ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sm.Put(ctx, key, string(data))
	return nil
}

// PopFlash removes and decodes the value stored under key. It reports
// false when nothing was stored or the value does not decode into T.
func PopFlash[T any](sm *scs.SessionManager, ctx context.Context, key string) (T, bool) {
	var v T
	raw := sm.PopString(ctx, key)
	if raw == "" {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, false
	}
	return v, true
}
