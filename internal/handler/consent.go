// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strings"
)

// Query parameter that forces the consent dialog open.
const (
	reopenQueryKey   = "cookie-settings"
	reopenQueryValue = "open"
)

// SaveConsent handles POST /consent. The action field selects accept,
// reject or save; save reads the analytics and functional checkboxes.
func (h *FrontendHandler) SaveConsent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	store := h.consentStore(w, r)
	ctx := r.Context()

	switch r.PostFormValue("action") {
	case "accept":
		store.AcceptAll(ctx)
	case "reject":
		store.RejectNonEssential(ctx)
	case "save":
		store.Write(ctx, checked(r.PostFormValue("analytics")), checked(r.PostFormValue("functional")))
	default:
		http.Error(w, "Unknown consent action", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return"), ""), http.StatusSeeOther)
}

// ReopenConsent handles POST /consent/reopen: the visitor asked to change
// the decision, so the next page shows the dialog prefilled.
func (h *FrontendHandler) ReopenConsent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	h.consentStore(w, r).Reopen(r.Context())
	q := url.Values{reopenQueryKey: {reopenQueryValue}}
	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return"), q.Encode()), http.StatusSeeOther)
}

func checked(v string) bool {
	return v == "on" || v == "true" || v == "1"
}

// safeReturnPath keeps redirects on this site. Anything that is not a
// plain absolute path falls back to the home page.
func safeReturnPath(raw, query string) string {
	p := "/"
	if u, err := url.Parse(raw); err == nil && u.Scheme == "" && u.Host == "" &&
		strings.HasPrefix(u.Path, "/") && !strings.HasPrefix(raw, "//") && !strings.Contains(raw, `\`) {
		p = u.Path
	}
	if query != "" {
		p += "?" + query
	}
	return p
}
