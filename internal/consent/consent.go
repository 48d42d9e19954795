// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package consent tracks the visitor's cookie consent decision.
package consent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

const (
	// Version is bumped whenever the cookie categories change; older
	// records are discarded and the visitor is asked again.
	Version = 1
	// Expiry is how long a decision stays valid.
	Expiry = 365 * 24 * time.Hour
)

// Category is a group of cookies.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryAnalytics  Category = "analytics"
	CategoryFunctional Category = "functional"
)

// Preferences are the optional categories a visitor can toggle. Technical
// cookies are always on and not stored.
type Preferences struct {
	Analytics  bool `json:"analytics"`
	Functional bool `json:"functional"`
}

// DefaultPreferences pre-fill the dialog when no decision exists.
var DefaultPreferences = Preferences{Analytics: true, Functional: true}

// Record is a stored decision. It is never updated in place.
type Record struct {
	Analytics  bool  `json:"analytics"`
	Functional bool  `json:"functional"`
	Timestamp  int64 `json:"timestamp"` // ms since epoch
	Version    int   `json:"version"`
}

// Preferences returns the category flags of the record.
func (r Record) Preferences() Preferences {
	return Preferences{Analytics: r.Analytics, Functional: r.Functional}
}

// State is either Unset (Recorded == false) or Recorded with its record.
type State struct {
	Recorded bool
	Record   Record
}

// Unset reports whether no valid decision exists.
func (s State) Unset() bool { return !s.Recorded }

// Allows reports whether cookies of category c may be set.
func (s State) Allows(c Category) bool {
	switch c {
	case CategoryTechnical:
		return true
	case CategoryAnalytics:
		return s.Recorded && s.Record.Analytics
	case CategoryFunctional:
		return s.Recorded && s.Record.Functional
	default:
		return false
	}
}

// Store reads and writes the decision through a Storage. Storage failures
// are logged and never returned: a failed read counts as Unset, a failed
// write as a no-op.
type Store struct {
	storage Storage
	bus     *Bus
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store. bus may be nil when nobody listens.
func NewStore(storage Storage, bus *Bus, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage: storage,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the current decision. Invalid, outdated or expired records
// are removed and reported as Unset.
func (s *Store) Read() State {
	data, err := s.storage.Load()
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			s.logger.Warn("consent storage read failed", "error", err)
		}
		return State{}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Debug("discarding malformed consent record", "error", err)
		s.remove()
		return State{}
	}
	if rec.Version != Version {
		s.remove()
		return State{}
	}
	if s.now().UnixMilli()-rec.Timestamp > Expiry.Milliseconds() {
		s.remove()
		return State{}
	}
	return State{Recorded: true, Record: rec}
}

// Write records a new decision and publishes TopicChanged. It is the only
// mutation path.
func (s *Store) Write(ctx context.Context, analytics, functional bool) Record {
	rec := Record{
		Analytics:  analytics,
		Functional: functional,
		Timestamp:  s.now().UnixMilli(),
		Version:    Version,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("encoding consent record failed", "error", err)
		return rec
	}
	if err := s.storage.Save(data); err != nil {
		s.logger.Warn("consent storage write failed", "error", err)
		return rec
	}
	if s.bus != nil {
		s.bus.Publish(ctx, TopicChanged, rec)
	}
	return rec
}

// AcceptAll enables every optional category.
func (s *Store) AcceptAll(ctx context.Context) Record {
	return s.Write(ctx, true, true)
}

// RejectNonEssential disables every optional category.
func (s *Store) RejectNonEssential(ctx context.Context) Record {
	return s.Write(ctx, false, false)
}

// Clear forgets the decision without publishing anything.
func (s *Store) Clear() {
	s.remove()
}

func (s *Store) remove() {
	if err := s.storage.Remove(); err != nil {
		s.logger.Warn("consent storage remove failed", "error", err)
	}
}

// HasConsent reports whether category c is allowed.
func (s *Store) HasConsent(c Category) bool {
	return s.Read().Allows(c)
}

// ShouldShowDialog reports whether the visitor must be asked.
func (s *Store) ShouldShowDialog() bool {
	return s.Read().Unset()
}

// Reopen asks for the dialog to be shown again regardless of the current
// state. The returned preferences pre-fill it: the current decision if
// one exists, DefaultPreferences otherwise.
func (s *Store) Reopen(ctx context.Context) Preferences {
	prefs := DefaultPreferences
	if st := s.Read(); st.Recorded {
		prefs = st.Record.Preferences()
	}
	if s.bus != nil {
		s.bus.Publish(ctx, TopicOpenDialog, prefs)
	}
	return prefs
}
