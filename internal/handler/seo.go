package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/biemme2/biemme2-site/internal/content"
	"github.com/biemme2/biemme2-site/internal/seo"
	"github.com/biemme2/biemme2-site/internal/store"
)

// DocumentTimes reports when a stored document last changed.
type DocumentTimes interface {
	Get(ctx context.Context, slug string) (store.Global, error)
}

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	siteURL     string
	docs        DocumentTimes
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates the handler. docs may be nil, in which case the
// sitemap carries no lastmod dates. disallowAll blocks every crawler.
func NewSEOHandler(siteURL string, docs DocumentTimes, disallowAll bool, logger *slog.Logger) *SEOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SEOHandler{siteURL: siteURL, docs: docs, disallowAll: disallowAll, logger: logger}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	lastMod := make(map[content.PageType]time.Time, len(content.PageTypes))
	if h.docs != nil {
		for _, p := range content.PageTypes {
			if g, err := h.docs.Get(r.Context(), p.Slug()); err == nil {
				lastMod[p] = g.UpdatedAt
			}
		}
	}

	data, err := seo.GenerateSitemap(h.siteURL, lastMod)
	if err != nil {
		logAndInternalError(w, h.logger, "sitemap generation failed", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(seo.GenerateRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.disallowAll,
	})))
}
