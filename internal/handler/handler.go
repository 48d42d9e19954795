// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the public site: pages, the contact form, the
// cookie consent endpoints, SEO files and the health check.
package handler

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/biemme2/biemme2-site/internal/analytics"
	"github.com/biemme2/biemme2-site/internal/consent"
	"github.com/biemme2/biemme2-site/internal/contact"
	"github.com/biemme2/biemme2-site/internal/content"
	"github.com/biemme2/biemme2-site/internal/render"
	"github.com/biemme2/biemme2-site/internal/seo"
)

// ContactSubmitter runs the contact pipeline.
type ContactSubmitter interface {
	Submit(ctx context.Context, f contact.Form, meta contact.Meta) (contact.Result, error)
}

// FrontendDeps are the collaborators of the public site.
type FrontendDeps struct {
	Resolver         *content.Resolver
	Renderer         *render.Renderer
	Sessions         *scs.SessionManager
	Contact          ContactSubmitter
	Trackers         *analytics.Trackers
	ConsentBus       *consent.Bus
	Site             seo.SiteConfig
	Media            *content.MediaResolver
	RecaptchaSiteKey string
	SecureCookies    bool
	Logger           *slog.Logger
}

// FrontendHandler serves the server-rendered pages.
type FrontendHandler struct {
	resolver         *content.Resolver
	renderer         *render.Renderer
	sessions         *scs.SessionManager
	contact          ContactSubmitter
	trackers         *analytics.Trackers
	bus              *consent.Bus
	site             seo.SiteConfig
	media            *content.MediaResolver
	recaptchaSiteKey string
	secureCookies    bool
	logger           *slog.Logger
}

// NewFrontendHandler creates the public site handler.
func NewFrontendHandler(d FrontendDeps) *FrontendHandler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Trackers == nil {
		d.Trackers = analytics.New(analytics.Settings{}, d.Logger)
	}
	if d.Media == nil {
		d.Media = content.NewMediaResolver("")
	}
	return &FrontendHandler{
		resolver:         d.Resolver,
		renderer:         d.Renderer,
		sessions:         d.Sessions,
		contact:          d.Contact,
		trackers:         d.Trackers,
		bus:              d.ConsentBus,
		site:             d.Site,
		media:            d.Media,
		recaptchaSiteKey: d.RecaptchaSiteKey,
		secureCookies:    d.SecureCookies,
		logger:           d.Logger.With("component", "frontend"),
	}
}

// consentStore binds a consent store to the visitor's cookie.
func (h *FrontendHandler) consentStore(w http.ResponseWriter, r *http.Request) *consent.Store {
	return consent.NewStore(consent.NewCookieStorage(w, r, h.secureCookies), h.bus, h.logger)
}

// page describes one rendered page.
type page struct {
	name   string
	path   string
	seo    content.SEO
	header content.Header
	footer content.Footer
	data   any
	jsonld []template.JS
	status int
}

// renderPage fills the layout data shared by every page and renders it.
func (h *FrontendHandler) renderPage(w http.ResponseWriter, r *http.Request, p page) {
	state := h.consentStore(w, r).Read()

	dialog := render.ConsentData{ShowDialog: state.Unset(), Prefs: consent.DefaultPreferences}
	if state.Recorded {
		dialog.Prefs = state.Record.Preferences()
	}
	if r.URL.Query().Get(reopenQueryKey) == reopenQueryValue {
		dialog.ShowDialog = true
	}

	data := render.TemplateData{
		Path:          p.path,
		Meta:          seo.BuildMeta(p.seo, p.path, h.site, h.media),
		JSONLD:        p.jsonld,
		Header:        p.header,
		Footer:        p.footer,
		Page:          p.data,
		Consent:       dialog,
		AnalyticsHead: h.trackers.Head(state),
		AnalyticsBody: h.trackers.Body(state),
	}
	if p.name == "contatti" {
		data.RecaptchaSiteKey = h.recaptchaSiteKey
		if h.sessions != nil {
			if f, ok := popFlash(h.sessions, r.Context()); ok {
				data.Flash = &f
			}
		}
	}

	status := p.status
	if status == 0 {
		status = http.StatusOK
	}
	if err := h.renderer.Render(w, status, p.name, data); err != nil {
		logAndInternalError(w, h.logger, "render error", "template", p.name, "error", err)
	}
}
