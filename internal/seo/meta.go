// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds meta tags, structured data, the sitemap and
// robots.txt for the site pages.
package seo

import (
	"fmt"
	"strings"

	"github.com/biemme2/biemme2-site/internal/content"
)

// Meta holds the head tags of a page.
type Meta struct {
	Title         string
	Description   string
	Keywords      string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string
	OGType        string
	OGSiteName    string
	OGLocale      string
	Robots        string
	TwitterCard   string
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	DefaultTitle    string
	TitleTemplate   string // fmt pattern with one %s
	SiteDescription string
	Keywords        []string
	DefaultOGImage  string
}

// DefaultSite returns the settings of biemme2.it for siteURL.
func DefaultSite(siteURL string) SiteConfig {
	return SiteConfig{
		SiteName:        "BIEMME 2 Costruzioni",
		SiteURL:         strings.TrimSuffix(siteURL, "/"),
		DefaultTitle:    "BIEMME 2 | Costruzioni Edili dal 1986",
		TitleTemplate:   "%s | BIEMME 2",
		SiteDescription: "Da oltre 40 anni ci occupiamo di costruzioni. Edilizia residenziale, industriale, restauro e ristrutturazioni a Morengo (BG).",
		Keywords: []string{
			"costruzioni edili", "edilizia residenziale", "edilizia industriale",
			"ristrutturazioni", "scavi", "movimento terra", "zootecnico",
			"Morengo", "Bergamo", "Lombardia", "BIEMME 2",
		},
		DefaultOGImage: "/img/hero-1-opt.jpg",
	}
}

// BuildMeta creates the meta tags for a page from its SEO block. path is
// the page path ("/" for the home page). Empty fields fall back to the
// site defaults.
func BuildMeta(s content.SEO, path string, site SiteConfig, media *content.MediaResolver) Meta {
	m := Meta{
		OGType:      "website",
		OGSiteName:  site.SiteName,
		OGLocale:    "it_IT",
		TwitterCard: "summary_large_image",
		Robots:      "index,follow",
		Keywords:    strings.Join(site.Keywords, ", "),
	}

	switch {
	case s.Title == "":
		m.Title = site.DefaultTitle
	case path == "/" || site.TitleTemplate == "" || strings.Contains(s.Title, "BIEMME 2"):
		m.Title = s.Title
	default:
		m.Title = fmt.Sprintf(site.TitleTemplate, s.Title)
	}
	m.OGTitle = m.Title

	m.Description = s.Description
	if m.Description == "" {
		m.Description = site.SiteDescription
	}
	m.Description = truncateText(m.Description, 160)
	m.OGDescription = m.Description

	m.Canonical = site.SiteURL
	if path != "" && path != "/" {
		m.Canonical = site.SiteURL + path
	}

	img := site.DefaultOGImage
	if s.OGImage != nil {
		if media != nil {
			img = media.URL(s.OGImage, img)
		} else {
			img = content.MediaURL(s.OGImage, img)
		}
	}
	m.OGImage = makeAbsoluteURL(img, site.SiteURL)
	return m
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	truncated := string(runes[:maxLen])
	if i := strings.LastIndex(truncated, " "); i > len(truncated)/2 {
		truncated = truncated[:i]
	}
	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(u, siteURL string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return strings.TrimSuffix(siteURL, "/") + u
}
