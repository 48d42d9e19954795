// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content resolves render-ready page models by merging CMS
// global documents with bundled fallback content.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/biemme2/biemme2-site/internal/store"
)

// PageType identifies a site page.
type PageType string

const (
	PageHome     PageType = "home"
	PageServizi  PageType = "servizi"
	PageAzienda  PageType = "azienda"
	PageContatti PageType = "contatti"
	PagePrivacy  PageType = "privacy"
	PageCookie   PageType = "cookie"
)

// Layout document slugs.
const (
	SlugHeader = "header"
	SlugFooter = "footer"
)

// ErrUnknownPage is returned by Resolve for an unsupported page type.
var ErrUnknownPage = errors.New("content: unknown page type")

// PageTypes lists every page in navigation order.
var PageTypes = []PageType{PageHome, PageAzienda, PageServizi, PageContatti, PagePrivacy, PageCookie}

// Slug returns the CMS global slug of the page document.
func (p PageType) Slug() string {
	return string(p) + "-page"
}

// Path returns the site path of the page.
func (p PageType) Path() string {
	if p == PageHome {
		return "/"
	}
	return "/" + string(p)
}

// AllSlugs returns the slug of every global document the site reads.
func AllSlugs() []string {
	slugs := make([]string, 0, len(PageTypes)+2)
	for _, p := range PageTypes {
		slugs = append(slugs, p.Slug())
	}
	return append(slugs, SlugHeader, SlugFooter)
}

// ParsePageType maps a name ("servizi") or slug ("servizi-page") to a PageType.
func ParsePageType(s string) (PageType, bool) {
	for _, p := range PageTypes {
		if s == string(p) || s == p.Slug() {
			return p, true
		}
	}
	return "", false
}

// View is a fully populated page together with the shared layout.
type View[P any] struct {
	Page   P      `json:"page"`
	Header Header `json:"header"`
	Footer Footer `json:"footer"`
}

// Resolver builds page views. It never fails: a document that cannot be
// fetched or decoded is replaced by the bundled fallback.
type Resolver struct {
	store  DocumentStore
	logger *slog.Logger
}

// NewResolver creates a resolver over docs. A nil docs serves fallbacks only.
func NewResolver(docs DocumentStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:  docs,
		logger: logger.With("component", "content", "category", store.EventCategoryContent),
	}
}

func (r *Resolver) Home(ctx context.Context) View[HomePage] {
	return resolve(ctx, r, PageHome.Slug(), FallbackHomePage())
}

func (r *Resolver) Servizi(ctx context.Context) View[ServiziPage] {
	return resolve(ctx, r, PageServizi.Slug(), FallbackServiziPage())
}

func (r *Resolver) Azienda(ctx context.Context) View[AziendaPage] {
	return resolve(ctx, r, PageAzienda.Slug(), FallbackAziendaPage())
}

func (r *Resolver) Contatti(ctx context.Context) View[ContattiPage] {
	return resolve(ctx, r, PageContatti.Slug(), FallbackContattiPage())
}

func (r *Resolver) Privacy(ctx context.Context) View[PrivacyPage] {
	return resolve(ctx, r, PagePrivacy.Slug(), FallbackPrivacyPage())
}

func (r *Resolver) Cookie(ctx context.Context) View[CookiePage] {
	return resolve(ctx, r, PageCookie.Slug(), FallbackCookiePage())
}

// Resolve returns the view of page as one of the View types above.
func (r *Resolver) Resolve(ctx context.Context, page PageType) (any, error) {
	switch page {
	case PageHome:
		return r.Home(ctx), nil
	case PageServizi:
		return r.Servizi(ctx), nil
	case PageAzienda:
		return r.Azienda(ctx), nil
	case PageContatti:
		return r.Contatti(ctx), nil
	case PagePrivacy:
		return r.Privacy(ctx), nil
	case PageCookie:
		return r.Cookie(ctx), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
}

// Layout resolves the header and footer alone (error pages).
func (r *Resolver) Layout(ctx context.Context) (Header, Footer) {
	var headerDoc, footerDoc json.RawMessage
	var g errgroup.Group
	g.Go(func() error { headerDoc = r.fetch(ctx, SlugHeader); return nil })
	g.Go(func() error { footerDoc = r.fetch(ctx, SlugFooter); return nil })
	_ = g.Wait()
	return r.header(headerDoc), r.footer(footerDoc)
}

func resolve[P any](ctx context.Context, r *Resolver, slug string, fallback P) View[P] {
	var pageDoc, headerDoc, footerDoc json.RawMessage

	// Branches never return an error so one failed fetch cannot cancel the others.
	var g errgroup.Group
	g.Go(func() error { pageDoc = r.fetch(ctx, slug); return nil })
	g.Go(func() error { headerDoc = r.fetch(ctx, SlugHeader); return nil })
	g.Go(func() error { footerDoc = r.fetch(ctx, SlugFooter); return nil })
	_ = g.Wait()

	page, err := Merge(fallback, pageDoc)
	r.logMergeError(slug, err)
	return View[P]{
		Page:   page,
		Header: r.header(headerDoc),
		Footer: r.footer(footerDoc),
	}
}

func (r *Resolver) header(doc json.RawMessage) Header {
	h, err := Merge(FallbackHeader(), doc)
	r.logMergeError(SlugHeader, err)
	return h
}

func (r *Resolver) footer(doc json.RawMessage) Footer {
	f, err := MergeFooter(FallbackFooter(), doc)
	r.logMergeError(SlugFooter, err)
	return f
}

func (r *Resolver) logMergeError(slug string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrFieldMismatch):
		r.logger.Warn("ignoring cms fields", "slug", slug, "error", err)
	default:
		r.logger.Warn("discarding cms document", "slug", slug, "error", err)
	}
}

// fetch returns nil when the document is unavailable for any reason.
func (r *Resolver) fetch(ctx context.Context, slug string) (doc json.RawMessage) {
	if r.store == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("document store panicked", "slug", slug, "panic", p)
			doc = nil
		}
	}()

	doc, err := r.store.GetGlobal(ctx, slug)
	switch {
	case errors.Is(err, ErrNotFound):
		r.logger.Debug("cms document not found, using fallback", "slug", slug)
		return nil
	case err != nil:
		r.logger.Warn("cms fetch failed, using fallback", "slug", slug, "error", err)
		return nil
	}
	return doc
}
