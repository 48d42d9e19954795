// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/biemme2/biemme2-site/internal/content"
)

const maxDocumentBytes = 1 << 20

// PutGlobal handles PUT /api/globals/{slug}. The body must apply cleanly to
// the page type; it then replaces the stored document and the cached copy
// is dropped. While a CMS is configured the local copy is only read when
// the CMS cannot serve the slug, which the response reports as shadowed.
func (h *Handler) PutGlobal(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !knownSlug(slug) {
		WriteError(w, http.StatusNotFound, "not_found", "Unknown document", map[string]string{"slug": slug})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Document exceeds 1 MB", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "bad_request", "Failed to read body", nil)
		return
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		WriteError(w, http.StatusBadRequest, "validation_error", "Body must be a JSON object", nil)
		return
	}

	if err := content.CheckDocument(slug, json.RawMessage(body)); err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Document does not fit the page type",
			map[string]string{"slug": slug, "detail": err.Error()})
		return
	}

	if err := h.docs.Put(r.Context(), slug, json.RawMessage(body)); err != nil {
		h.logger.Error("storing document failed", "slug", slug, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to store document", nil)
		return
	}
	if err := h.cache.Invalidate(r.Context(), slug); err != nil {
		h.logger.Warn("cache invalidation failed", "slug", slug, "error", err)
	}
	h.logger.Info("document updated", "slug", slug, "bytes", len(body))
	if h.shadowed {
		h.logger.Warn("local document is shadowed by the cms while it serves this slug", "slug", slug)
	}
	WriteSuccess(w, map[string]any{"slug": slug, "shadowed": h.shadowed})
}

// DeleteGlobal handles DELETE /api/globals/{slug}. The site falls back to
// its bundled copy afterwards.
func (h *Handler) DeleteGlobal(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !knownSlug(slug) {
		WriteError(w, http.StatusNotFound, "not_found", "Unknown document", map[string]string{"slug": slug})
		return
	}
	if err := h.docs.Delete(r.Context(), slug); err != nil {
		h.logger.Error("deleting document failed", "slug", slug, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to delete document", nil)
		return
	}
	if err := h.cache.Purge(r.Context(), slug); err != nil {
		h.logger.Warn("cache purge failed", "slug", slug, "error", err)
	}
	h.logger.Info("document deleted", "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}
