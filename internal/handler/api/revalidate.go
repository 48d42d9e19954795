package api

import (
	"net/http"

	"github.com/biemme2/biemme2-site/internal/content"
)

// Revalidate handles POST /api/revalidate. With ?slug= only that document
// is dropped, otherwise every cached document is.
func (h *Handler) Revalidate(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		if err := h.cache.InvalidateAll(r.Context()); err != nil {
			h.logger.Error("cache invalidation failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to revalidate", nil)
			return
		}
		h.logger.Info("cache revalidated", "slugs", "all")
		WriteSuccess(w, map[string]any{"revalidated": content.AllSlugs()})
		return
	}

	if !knownSlug(slug) {
		WriteError(w, http.StatusNotFound, "not_found", "Unknown document", map[string]string{"slug": slug})
		return
	}
	if err := h.cache.Invalidate(r.Context(), slug); err != nil {
		h.logger.Error("cache invalidation failed", "slug", slug, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to revalidate", nil)
		return
	}
	h.logger.Info("cache revalidated", "slugs", slug)
	WriteSuccess(w, map[string]any{"revalidated": []string{slug}})
}
