package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/biemme2/biemme2-site/internal/consent"
	"github.com/biemme2/biemme2-site/internal/contact"
	"github.com/biemme2/biemme2-site/internal/content"
	"github.com/biemme2/biemme2-site/internal/render"
	"github.com/biemme2/biemme2-site/internal/seo"
	"github.com/biemme2/biemme2-site/internal/session"
	"github.com/biemme2/biemme2-site/internal/testutil"
	"github.com/biemme2/biemme2-site/web"
)

type fakeContact struct {
	res  contact.Result
	err  error
	form contact.Form
	meta contact.Meta
}

func (f *fakeContact) Submit(_ context.Context, form contact.Form, meta contact.Meta) (contact.Result, error) {
	f.form = form
	f.meta = meta
	return f.res, f.err
}

type testEnv struct {
	h        *FrontendHandler
	sessions *scs.SessionManager
	contact  *fakeContact
	bus      *consent.Bus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testutil.TestLoggerSilent()

	rnd, err := render.New(render.Config{TemplatesFS: web.Templates, Logger: logger})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	env := &testEnv{
		sessions: session.New(testutil.TestDB(t), true),
		contact:  &fakeContact{res: contact.Result{Success: true, Message: contact.MsgSuccess}},
		bus:      consent.NewBus(logger),
	}
	env.h = NewFrontendHandler(FrontendDeps{
		Resolver:   content.NewResolver(nil, logger),
		Renderer:   rnd,
		Sessions:   env.sessions,
		Contact:    env.contact,
		ConsentBus: env.bus,
		Site:       seo.DefaultSite("https://www.biemme2.com"),
		Logger:     logger,
	})
	return env
}

// serve runs fn behind the session middleware.
func (e *testEnv) serve(fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.sessions.LoadAndSave(fn).ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func consentCookie(t *testing.T, rec consent.Record) *http.Cookie {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Cookie{Name: consent.CookieName, Value: url.QueryEscape(string(data))}
}

func nowMillis() int64 { return time.Now().UnixMilli() }

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestPages_Render(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		path string
		fn   http.HandlerFunc
		want string
	}{
		{"/", env.h.Home, `"@type":"GeneralContractor"`},
		{"/servizi", env.h.Servizi, "BreadcrumbList"},
		{"/azienda", env.h.Azienda, "BreadcrumbList"},
		{"/contatti", env.h.Contatti, `name="website"`},
		{"/privacy", env.h.Privacy, "<h1"},
		{"/cookie", env.h.Cookie, "<h1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := env.serve(tt.fn, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
			if !strings.Contains(body, `rel="canonical"`) {
				t.Error("canonical link missing")
			}
			// No decision yet: dialog shown, no trackers.
			if !strings.Contains(body, "consent-dialog") {
				t.Error("consent dialog not shown to a new visitor")
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.serve(env.h.NotFound, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Pagina non trovata") {
		t.Error("404 page missing title")
	}
}

func TestRenderPage_ConsentState(t *testing.T) {
	env := newTestEnv(t)
	rec := consent.Record{Analytics: false, Functional: true, Timestamp: nowMillis(), Version: consent.Version}

	req := httptest.NewRequest(http.MethodGet, "/azienda", nil)
	req.AddCookie(consentCookie(t, rec))
	res := env.serve(env.h.Azienda, req)
	if strings.Contains(res.Body.String(), "consent-dialog") {
		t.Error("dialog shown although a decision is stored")
	}

	req = httptest.NewRequest(http.MethodGet, "/azienda?"+reopenQueryKey+"="+reopenQueryValue, nil)
	req.AddCookie(consentCookie(t, rec))
	body := env.serve(env.h.Azienda, req).Body.String()
	if !strings.Contains(body, "consent-dialog") {
		t.Fatal("reopen query should force the dialog")
	}
	if !strings.Contains(body, `name="functional" value="on" checked`) {
		t.Error("dialog should be prefilled with the stored decision")
	}
	if strings.Contains(body, `name="analytics" value="on" checked`) {
		t.Error("analytics was rejected and should not be checked")
	}
}

func TestSaveConsent(t *testing.T) {
	tests := []struct {
		name           string
		form           url.Values
		wantStatus     int
		wantAnalytics  bool
		wantFunctional bool
		wantLocation   string
	}{
		{"accept", url.Values{"action": {"accept"}, "return": {"/servizi"}}, http.StatusSeeOther, true, true, "/servizi"},
		{"reject", url.Values{"action": {"reject"}}, http.StatusSeeOther, false, false, "/"},
		{"save", url.Values{"action": {"save"}, "functional": {"on"}, "return": {"/contatti"}}, http.StatusSeeOther, false, true, "/contatti"},
		{"open redirect", url.Values{"action": {"accept"}, "return": {"//evil.example"}}, http.StatusSeeOther, true, true, "/"},
		{"unknown action", url.Values{"action": {"maybe"}}, http.StatusBadRequest, false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			var published []consent.Record
			env.bus.SubscribeFunc(consent.TopicChanged, "test", func(_ context.Context, ev consent.Event) error {
				if r, ok := ev.Payload.(consent.Record); ok {
					published = append(published, r)
				}
				return nil
			})

			rec := env.serve(env.h.SaveConsent, postForm("/consent", tt.form))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusSeeOther {
				if findCookie(rec, consent.CookieName) != nil {
					t.Error("cookie written for a rejected request")
				}
				return
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}

			c := findCookie(rec, consent.CookieName)
			if c == nil {
				t.Fatal("consent cookie not set")
			}
			raw, _ := url.QueryUnescape(c.Value)
			var stored consent.Record
			if err := json.Unmarshal([]byte(raw), &stored); err != nil {
				t.Fatalf("cookie value %q: %v", raw, err)
			}
			if stored.Analytics != tt.wantAnalytics || stored.Functional != tt.wantFunctional {
				t.Errorf("stored = %+v", stored)
			}
			if stored.Version != consent.Version {
				t.Errorf("version = %d", stored.Version)
			}
			if len(published) != 1 {
				t.Errorf("published %d change events, want 1", len(published))
			}
		})
	}
}

func TestReopenConsent(t *testing.T) {
	env := newTestEnv(t)
	opened := 0
	env.bus.SubscribeFunc(consent.TopicOpenDialog, "test", func(context.Context, consent.Event) error {
		opened++
		return nil
	})

	rec := env.serve(env.h.ReopenConsent, postForm("/consent/reopen", url.Values{"return": {"/azienda"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/azienda?cookie-settings=open" {
		t.Errorf("Location = %q", loc)
	}
	if opened != 1 {
		t.Errorf("open_dialog published %d times, want 1", opened)
	}
}

func TestSafeReturnPath(t *testing.T) {
	tests := []struct {
		raw, query, want string
	}{
		{"/servizi", "", "/servizi"},
		{"/servizi?x=1", "", "/servizi"},
		{"", "", "/"},
		{"https://evil.example/", "", "/"},
		{"//evil.example", "", "/"},
		{`/\evil.example`, "", "/"},
		{"servizi", "", "/"},
		{"/azienda", "a=b", "/azienda?a=b"},
	}
	for _, tt := range tests {
		if got := safeReturnPath(tt.raw, tt.query); got != tt.want {
			t.Errorf("safeReturnPath(%q, %q) = %q, want %q", tt.raw, tt.query, got, tt.want)
		}
	}
}

func validContactForm() url.Values {
	return url.Values{
		"name":           {"Mario Rossi"},
		"email":          {"mario@example.com"},
		"message":        {"Vorrei un preventivo per un capannone."},
		"privacy":        {"on"},
		"website":        {""},
		"recaptchaToken": {"tok"},
	}
}

func TestSubmitContact_RedirectWithFlash(t *testing.T) {
	env := newTestEnv(t)
	env.contact.res = contact.Result{
		Message: contact.MsgInvalid,
		Errors:  map[string]string{"email": "Inserisci un'email valida"},
	}
	env.contact.err = contact.ErrValidation

	req := postForm("/contatti", validContactForm())
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "203.0.113.9:1234"
	rec := env.serve(env.h.SubmitContact, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/contatti#form" {
		t.Errorf("Location = %q", loc)
	}
	if env.contact.form.Name != "Mario Rossi" || env.contact.meta.UserAgent != "test-agent" {
		t.Errorf("submitted form = %+v meta = %+v", env.contact.form, env.contact.meta)
	}
	if env.contact.meta.IP != "203.0.113.9" {
		t.Errorf("meta.IP = %q", env.contact.meta.IP)
	}

	sc := findCookie(rec, session.CookieName)
	if sc == nil {
		t.Fatal("session cookie not set")
	}
	get := httptest.NewRequest(http.MethodGet, "/contatti", nil)
	get.AddCookie(sc)
	body := env.serve(env.h.Contatti, get).Body.String()
	for _, want := range []string{contact.MsgInvalid, "Inserisci un&#39;email valida", `value="Mario Rossi"`} {
		if !strings.Contains(body, want) {
			t.Errorf("contatti page missing %q", want)
		}
	}

	// The flash is shown once.
	again := httptest.NewRequest(http.MethodGet, "/contatti", nil)
	again.AddCookie(sc)
	if strings.Contains(env.serve(env.h.Contatti, again).Body.String(), contact.MsgInvalid) {
		t.Error("flash shown twice")
	}
}

func TestSubmitContact_JSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"rate limited", contact.ErrRateLimited, http.StatusTooManyRequests},
		{"invalid", contact.ErrValidation, http.StatusBadRequest},
		{"captcha", contact.ErrCaptchaFailed, http.StatusBadRequest},
		{"delivery", contact.ErrDelivery, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.contact.err = tt.err
			env.contact.res = contact.Result{Success: tt.err == nil, Message: "m"}

			req := postForm("/contatti", validContactForm())
			req.Header.Set("Accept", "application/json")
			rec := env.serve(env.h.SubmitContact, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			var res contact.Result
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.Success != (tt.err == nil) {
				t.Errorf("success = %v", res.Success)
			}
		})
	}
}
