// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON endpoints of the site: headless page
// views, the consent state and the document hooks used by the CMS.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/biemme2/biemme2-site/internal/content"
	"github.com/biemme2/biemme2-site/internal/middleware"
)

// DocumentWriter persists global documents.
type DocumentWriter interface {
	Put(ctx context.Context, slug string, data json.RawMessage) error
	Delete(ctx context.Context, slug string) error
}

// CacheInvalidator drops cached documents.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, slug string) error
	InvalidateAll(ctx context.Context) error
	Purge(ctx context.Context, slug string) error
}

// Deps are the collaborators of the API handlers.
type Deps struct {
	Resolver      *content.Resolver
	Documents     DocumentWriter
	Cache         CacheInvalidator
	SecureCookies bool
	// CMSConfigured marks local documents as fallbacks behind the CMS.
	CMSConfigured bool
	Logger        *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	resolver      *content.Resolver
	docs          DocumentWriter
	cache         CacheInvalidator
	secureCookies bool
	shadowed      bool
	logger        *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Handler{
		resolver:      d.Resolver,
		docs:          d.Documents,
		cache:         d.Cache,
		secureCookies: d.SecureCookies,
		shadowed:      d.CMSConfigured,
		logger:        d.Logger.With("component", "api"),
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	middleware.WriteAPIError(w, statusCode, code, message, details)
}

// knownSlug reports whether slug is a document the site reads.
func knownSlug(slug string) bool {
	return slices.Contains(content.AllSlugs(), slug)
}
