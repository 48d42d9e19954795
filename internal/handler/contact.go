// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/biemme2/biemme2-site/internal/contact"
	"github.com/biemme2/biemme2-site/internal/middleware"
	"github.com/biemme2/biemme2-site/internal/render"
	"github.com/biemme2/biemme2-site/internal/session"
)

const (
	flashKey        = "contact_flash"
	maxContactBytes = 64 << 10
	contactRedirect = "/contatti#form"
)

// SubmitContact handles POST /contatti. Browsers get a redirect back to
// the form with the outcome in a flash; clients asking for JSON get the
// result directly.
func (h *FrontendHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBytes)
	if err := r.ParseForm(); err != nil {
		if wantsJSON(r) {
			writeJSON(w, http.StatusBadRequest, contact.Result{Message: contact.MsgInvalid})
			return
		}
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := contact.FormFromRequest(r)
	res, err := h.contact.Submit(r.Context(), form, contact.Meta{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})

	if wantsJSON(r) {
		writeJSON(w, contactStatus(err), res)
		return
	}

	f := render.Flash{Type: "success", Message: res.Message}
	if !res.Success {
		f.Type = "error"
		f.Errors = res.Errors
		f.Values = map[string]string{
			"name":    form.Name,
			"email":   form.Email,
			"phone":   form.Phone,
			"company": form.Company,
			"service": form.Service,
			"message": form.Message,
		}
	}
	if err := putFlash(h.sessions, r.Context(), f); err != nil {
		h.logger.Error("storing contact flash failed", "error", err)
	}
	http.Redirect(w, r, contactRedirect, http.StatusSeeOther)
}

// contactStatus maps pipeline errors to HTTP status codes.
func contactStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, contact.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, contact.ErrValidation), errors.Is(err, contact.ErrCaptchaFailed):
		return http.StatusBadRequest
	case errors.Is(err, contact.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func putFlash(sm *scs.SessionManager, ctx context.Context, f render.Flash) error {
	if sm == nil {
		return nil
	}
	return session.PutFlash(sm, ctx, flashKey, f)
}

func popFlash(sm *scs.SessionManager, ctx context.Context) (render.Flash, bool) {
	return session.PopFlash[render.Flash](sm, ctx, flashKey)
}
