package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biemme2/biemme2-site/internal/auth"
)

func TestAPITokenAuth(t *testing.T) {
	hash, err := auth.HashToken("good-token")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		hash       string
		header     string
		wantStatus int
	}{
		{"valid", hash, "Bearer good-token", http.StatusOK},
		{"wrong token", hash, "Bearer bad-token", http.StatusUnauthorized},
		{"missing header", hash, "", http.StatusUnauthorized},
		{"basic auth", hash, "Basic Z29vZA==", http.StatusUnauthorized},
		{"writes disabled", "", "Bearer good-token", http.StatusForbidden},
		{"broken hash", "$argon2id$broken", "Bearer good-token", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APITokenAuth(tt.hash)(okHandler())
			req := httptest.NewRequest(http.MethodPut, "/api/globals/header", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				var body APIError
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decoding error body: %v", err)
				}
				if body.Error.Code == "" {
					t.Error("error code is empty")
				}
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Middleware()(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/pages/home", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("192.0.2.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := do("192.0.2.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", code)
	}
	if code := do("192.0.2.2:1234"); code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", code)
	}
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:1234": "192.0.2.1",
		"[::1]:8080":     "::1",
		"192.0.2.9":      "192.0.2.9",
	}
	for addr, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if got := ClientIP(req); got != want {
			t.Errorf("ClientIP(%q) = %q, want %q", addr, got, want)
		}
	}
}
