package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/biemme2/biemme2-site/internal/store"
	"github.com/biemme2/biemme2-site/internal/testutil"
)

type fakeTimes map[string]time.Time

func (f fakeTimes) Get(_ context.Context, slug string) (store.Global, error) {
	t, ok := f[slug]
	if !ok {
		return store.Global{}, store.ErrGlobalNotFound
	}
	return store.Global{Slug: slug, UpdatedAt: t}, nil
}

func TestSEOHandler_Sitemap(t *testing.T) {
	mod := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	h := NewSEOHandler("https://www.biemme2.com", fakeTimes{"servizi-page": mod}, false, testutil.TestLoggerSilent())

	rec := httptest.NewRecorder()
	h.Sitemap(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<loc>https://www.biemme2.com/servizi</loc>",
		"<lastmod>2026-03-01T10:00:00Z</lastmod>",
		"<loc>https://www.biemme2.com/cookie</loc>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if strings.Count(body, "<lastmod>") != 1 {
		t.Error("only the stored document should carry a lastmod")
	}
}

func TestSEOHandler_Robots(t *testing.T) {
	rec := httptest.NewRecorder()
	NewSEOHandler("https://www.biemme2.com", nil, false, nil).Robots(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "Sitemap: https://www.biemme2.com/sitemap.xml") {
		t.Errorf("robots missing sitemap: %s", body)
	}
	if !strings.Contains(body, "Disallow: /api/*") {
		t.Errorf("robots should hide the api: %s", body)
	}

	rec = httptest.NewRecorder()
	NewSEOHandler("https://staging.example", nil, true, nil).Robots(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if !strings.Contains(rec.Body.String(), "Disallow: /\n") {
		t.Error("staging robots should block everything")
	}
}
