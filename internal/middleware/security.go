// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware of the site: security
// headers, CSRF protection, API token auth and rate limiting.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS.
	IsDevelopment bool

	ContentSecurityPolicy string

	// HSTSMaxAge in seconds. 0 disables HSTS.
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool

	// FrameOptions is DENY, SAMEORIGIN or empty.
	FrameOptions      string
	ReferrerPolicy    string
	PermissionsPolicy string

	// ExcludePaths skip the headers (prefix match).
	ExcludePaths []string
}

// cspDirective is one Content-Security-Policy directive.
type cspDirective struct {
	name    string
	sources []string
}

// Third parties the pages load: analytics after consent, reCAPTCHA on the
// contact form and the embedded map.
var (
	analyticsScripts = []string{
		"https://www.googletagmanager.com",
		"https://www.google-analytics.com",
		"https://connect.facebook.net",
	}
	recaptchaSources = []string{"https://www.google.com/recaptcha/", "https://www.gstatic.com/recaptcha/"}
	mapFrames        = []string{"https://www.google.com/maps/", "https://maps.google.com"}
)

// DefaultSecurityHeadersConfig returns the headers used by the site.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	scripts := append([]string{"'self'", "'unsafe-inline'"}, analyticsScripts...)
	scripts = append(scripts, recaptchaSources...)
	if isDev {
		scripts = append(scripts, "'unsafe-eval'")
	}
	connect := []string{"'self'", "https://www.google-analytics.com", "https://*.analytics.google.com", "https://www.facebook.com"}
	frames := append(append([]string{"'self'"}, recaptchaSources...), mapFrames...)

	cfg := SecurityHeadersConfig{
		IsDevelopment: isDev,
		ContentSecurityPolicy: buildCSP([]cspDirective{
			{"default-src", []string{"'self'"}},
			{"script-src", scripts},
			{"style-src", []string{"'self'", "'unsafe-inline'"}},
			{"img-src", []string{"'self'", "data:", "blob:", "https:"}},
			{"font-src", []string{"'self'", "data:"}},
			{"connect-src", connect},
			{"frame-src", frames},
			{"object-src", []string{"'none'"}},
			{"base-uri", []string{"'self'"}},
			{"form-action", []string{"'self'"}},
		}),
		HSTSMaxAge:     31536000,
		FrameOptions:   "SAMEORIGIN",
		ReferrerPolicy: "strict-origin-when-cross-origin",
		PermissionsPolicy: strings.Join([]string{
			"accelerometer=()", "camera=()", "geolocation=()", "gyroscope=()",
			"microphone=()", "payment=()", "usb=()", "browsing-topics=()",
		}, ", "),
	}
	if !isDev {
		cfg.HSTSIncludeSubDomains = true
	}
	return cfg
}

func buildCSP(directives []cspDirective) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, d.name+" "+strings.Join(d.sources, " "))
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	hsts := ""
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
