// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/biemme2/biemme2-site/internal/store"
)

// ErrNotFound reports that a document store has no document for a slug.
var ErrNotFound = errors.New("content: document not found")

// DocumentStore serves CMS global documents by slug.
type DocumentStore interface {
	GetGlobal(ctx context.Context, slug string) (json.RawMessage, error)
}

// DBStore serves documents from the local globals table.
type DBStore struct {
	globals *store.Globals
}

// NewDBStore wraps the globals table as a DocumentStore.
func NewDBStore(globals *store.Globals) *DBStore {
	return &DBStore{globals: globals}
}

func (s *DBStore) GetGlobal(ctx context.Context, slug string) (json.RawMessage, error) {
	g, err := s.globals.Get(ctx, slug)
	if errors.Is(err, store.ErrGlobalNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g.Data, nil
}

// MemoryStore is an in-memory DocumentStore. Failures can be injected per
// slug.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
	errs map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]json.RawMessage),
		errs: make(map[string]error),
	}
}

// Set stores doc under slug.
func (s *MemoryStore) Set(slug string, doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[slug] = json.RawMessage(doc)
	delete(s.errs, slug)
}

// Fail makes every lookup of slug return err.
func (s *MemoryStore) Fail(slug string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[slug] = err
}

func (s *MemoryStore) GetGlobal(_ context.Context, slug string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.errs[slug]; ok {
		return nil, err
	}
	doc, ok := s.docs[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// FirstAvailable asks each store in order and returns the first document
// found. Errors other than ErrNotFound are remembered and returned when no
// store has the document.
type FirstAvailable []DocumentStore

func (f FirstAvailable) GetGlobal(ctx context.Context, slug string) (json.RawMessage, error) {
	var errs []error
	for _, s := range f {
		doc, err := s.GetGlobal(ctx, slug)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrNotFound
}

// FallbackDocuments encodes every bundled document keyed by slug, ready
// to seed a store.
func FallbackDocuments() (map[string]json.RawMessage, error) {
	docs := map[string]any{
		PageHome.Slug():     FallbackHomePage(),
		PageServizi.Slug():  FallbackServiziPage(),
		PageAzienda.Slug():  FallbackAziendaPage(),
		PageContatti.Slug(): FallbackContattiPage(),
		PagePrivacy.Slug():  FallbackPrivacyPage(),
		PageCookie.Slug():   FallbackCookiePage(),
		SlugHeader:          FallbackHeader(),
		SlugFooter:          FallbackFooter(),
	}
	out := make(map[string]json.RawMessage, len(docs))
	for slug, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", slug, err)
		}
		out[slug] = data
	}
	return out, nil
}
