// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html/template"
	"net/http"

	"github.com/biemme2/biemme2-site/internal/content"
	"github.com/biemme2/biemme2-site/internal/seo"
)

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	v := h.resolver.Home(r.Context())
	h.renderPage(w, r, page{
		name:   "home",
		path:   content.PageHome.Path(),
		seo:    v.Page.SEO,
		header: v.Header,
		footer: v.Footer,
		data:   v.Page,
		jsonld: []template.JS{seo.BuildOrganizationSchema(v.Footer, nil, h.site)},
	})
}

// Servizi handles GET /servizi.
func (h *FrontendHandler) Servizi(w http.ResponseWriter, r *http.Request) {
	v := h.resolver.Servizi(r.Context())
	h.renderPage(w, r, page{
		name:   "servizi",
		path:   content.PageServizi.Path(),
		seo:    v.Page.SEO,
		header: v.Header,
		footer: v.Footer,
		data:   v.Page,
		jsonld: []template.JS{
			seo.BuildBreadcrumbSchema("Servizi", content.PageServizi.Path(), h.site),
			seo.BuildServiceSchemas(v.Page.ServicesSection.Services, h.site),
		},
	})
}

// Azienda handles GET /azienda.
func (h *FrontendHandler) Azienda(w http.ResponseWriter, r *http.Request) {
	v := h.resolver.Azienda(r.Context())
	h.renderPage(w, r, page{
		name:   "azienda",
		path:   content.PageAzienda.Path(),
		seo:    v.Page.SEO,
		header: v.Header,
		footer: v.Footer,
		data:   v.Page,
		jsonld: []template.JS{seo.BuildBreadcrumbSchema("Azienda", content.PageAzienda.Path(), h.site)},
	})
}

// Contatti handles GET /contatti.
func (h *FrontendHandler) Contatti(w http.ResponseWriter, r *http.Request) {
	v := h.resolver.Contatti(r.Context())
	coords := v.Page.MapSection.Coordinates
	h.renderPage(w, r, page{
		name:   "contatti",
		path:   content.PageContatti.Path(),
		seo:    v.Page.SEO,
		header: v.Header,
		footer: v.Footer,
		data:   v.Page,
		jsonld: []template.JS{
			seo.BuildOrganizationSchema(v.Footer, &coords, h.site),
			seo.BuildBreadcrumbSchema("Contatti", content.PageContatti.Path(), h.site),
		},
	})
}

// Privacy handles GET /privacy.
func (h *FrontendHandler) Privacy(w http.ResponseWriter, r *http.Request) {
	v := h.resolver.Privacy(r.Context())
	h.renderPage(w, r, page{
		name:   "privacy",
		path:   content.PagePrivacy.Path(),
		seo:    v.Page.SEO,
		header: v.Header,
		footer: v.Footer,
		data:   v.Page,
	})
}

// Cookie handles GET /cookie.
func (h *FrontendHandler) Cookie(w http.ResponseWriter, r *http.Request) {
	v := h.resolver.Cookie(r.Context())
	h.renderPage(w, r, page{
		name:   "cookie",
		path:   content.PageCookie.Path(),
		seo:    v.Page.SEO,
		header: v.Header,
		footer: v.Footer,
		data:   v.Page,
	})
}

// ErrorPage is the model of the error template.
type ErrorPage struct {
	Code    int
	Title   string
	Message string
}

// NotFound renders the 404 page with the regular layout.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	header, footer := h.resolver.Layout(r.Context())
	h.renderPage(w, r, page{
		name:   "error",
		path:   r.URL.Path,
		seo:    content.SEO{Title: "Pagina non trovata", Description: "La pagina richiesta non esiste."},
		header: header,
		footer: footer,
		data: ErrorPage{
			Code:    http.StatusNotFound,
			Title:   "Pagina non trovata",
			Message: "La pagina che stai cercando non esiste o è stata spostata.",
		},
		status: http.StatusNotFound,
	})
}
