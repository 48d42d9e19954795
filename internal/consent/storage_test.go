package consent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biemme2/biemme2-site/internal/store"
	"github.com/biemme2/biemme2-site/internal/testutil"
)

func TestCookieStorage_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/consent", nil)

	s := NewStore(NewCookieStorage(rec, req, true), nil, newTestLogger())
	s.Write(context.Background(), true, false)

	// Same request sees its own write.
	assert.True(t, s.HasConsent(CategoryAnalytics))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, 365*24*60*60, c.MaxAge)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.NotContains(t, c.Value, `"`)

	// A later request carries the cookie back.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(c)
	st := NewStore(NewCookieStorage(httptest.NewRecorder(), next, true), nil, newTestLogger()).Read()
	require.True(t, st.Recorded)
	assert.True(t, st.Record.Analytics)
	assert.False(t, st.Record.Functional)
}

func TestCookieStorage_ClearExpiresCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "x"})
	rec := httptest.NewRecorder()

	s := NewStore(NewCookieStorage(rec, req, false), nil, newTestLogger())
	s.Clear()

	assert.True(t, s.Read().Unset())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCookieStorage_GarbageCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%zz"})
	rec := httptest.NewRecorder()

	s := NewStore(NewCookieStorage(rec, req, false), nil, newTestLogger())
	assert.True(t, s.ShouldShowDialog())
}

func TestAuditListener(t *testing.T) {
	db := testutil.TestDB(t)
	events := store.NewEvents(db)

	bus := NewBus(newTestLogger())
	bus.Subscribe(TopicChanged, AuditListener(events))
	s := NewStore(NewMemoryStorage(), bus, newTestLogger())

	ctx := context.Background()
	s.Write(ctx, false, true)

	list, err := events.ListByCategory(ctx, store.EventCategoryConsent, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "consent updated", list[0].Message)
	assert.True(t, strings.Contains(list[0].Metadata, `"functional":true`))
	assert.True(t, strings.Contains(list[0].Metadata, `"version":1`))
}

func TestAuditListener_RejectsUnexpectedPayload(t *testing.T) {
	l := AuditListener(store.NewEvents(testutil.TestDB(t)))
	if err := l.Fn(context.Background(), Event{Topic: TopicChanged, Payload: "nope"}); err == nil {
		t.Error("expected error for non-record payload")
	}
}
