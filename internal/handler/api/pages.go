// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/biemme2/biemme2-site/internal/content"
)

// GetPage handles GET /api/pages/{page}. The page may be given by name
// ("servizi") or slug ("servizi-page").
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	p, ok := content.ParsePageType(name)
	if !ok {
		WriteError(w, http.StatusNotFound, "not_found", "Page not found", map[string]string{"page": name})
		return
	}
	view, err := h.resolver.Resolve(r.Context(), p)
	if err != nil {
		h.logger.Error("resolving page failed", "page", p, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to resolve page", nil)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	WriteSuccess(w, view)
}
