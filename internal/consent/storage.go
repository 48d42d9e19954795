package consent

import (
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ErrNoRecord is returned by Storage.Load when nothing is stored.
var ErrNoRecord = errors.New("consent: no record stored")

// CookieName is the cookie holding the encoded consent record.
const CookieName = "cookieConsent"

// Storage persists the encoded consent record.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Remove() error
}

// MemoryStorage keeps the record in memory. Load and Save errors can be
// injected to simulate an unavailable medium.
type MemoryStorage struct {
	mu      sync.Mutex
	data    []byte
	LoadErr error
	SaveErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.data == nil {
		return nil, ErrNoRecord
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStorage) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStorage) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// CookieStorage stores the record in a first-party cookie for the
// duration of one request. Writes are visible to later Loads in the same
// request.
type CookieStorage struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool

	written bool
	value   []byte
}

// NewCookieStorage binds storage to a request/response pair.
func NewCookieStorage(w http.ResponseWriter, r *http.Request, secure bool) *CookieStorage {
	return &CookieStorage{r: r, w: w, secure: secure}
}

func (s *CookieStorage) Load() ([]byte, error) {
	if s.written {
		if s.value == nil {
			return nil, ErrNoRecord
		}
		return s.value, nil
	}
	c, err := s.r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

func (s *CookieStorage) Save(data []byte) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(string(data)),
		Path:     "/",
		MaxAge:   int(Expiry / time.Second),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.written = true
	s.value = append([]byte(nil), data...)
	return nil
}

func (s *CookieStorage) Remove() error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.written = true
	s.value = nil
	return nil
}
