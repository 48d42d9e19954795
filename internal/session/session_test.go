// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biemme2/biemme2-site/internal/testutil"
)

type notice struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func TestNew(t *testing.T) {
	sm := New(testutil.TestDB(t), false)

	if sm.Cookie.Name != CookieName {
		t.Errorf("cookie name = %q", sm.Cookie.Name)
	}
	if !sm.Cookie.Secure {
		t.Error("production cookies must be secure")
	}
	if !sm.Cookie.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v", sm.Cookie.SameSite)
	}

	if New(testutil.TestDB(t), true).Cookie.Secure {
		t.Error("development cookies must not be secure")
	}
}

func TestFlashRoundTrip(t *testing.T) {
	sm := New(testutil.TestDB(t), true)

	put := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := PutFlash(sm, r.Context(), "contact", notice{Success: true, Message: "Grazie!"}); err != nil {
			t.Errorf("PutFlash: %v", err)
		}
		w.WriteHeader(http.StatusSeeOther)
	}))

	var got []notice
	var found []bool
	pop := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, ok := PopFlash[notice](sm, r.Context(), "contact")
		got = append(got, n)
		found = append(found, ok)
	}))

	rec := httptest.NewRecorder()
	put.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contatti", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/contatti", nil)
		req.AddCookie(cookies[0])
		pop.ServeHTTP(httptest.NewRecorder(), req)
	}

	if !found[0] || got[0].Message != "Grazie!" || !got[0].Success {
		t.Errorf("first pop = %+v (found %v)", got[0], found[0])
	}
	if found[1] {
		t.Error("flash must be consumed by the first read")
	}
}
