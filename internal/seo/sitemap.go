package seo

import (
	"encoding/xml"
	"time"

	"github.com/biemme2/biemme2-site/internal/content"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type pageRank struct {
	freq     ChangeFreq
	priority string
}

var pageRanks = map[content.PageType]pageRank{
	content.PageHome:     {ChangeFreqWeekly, "1.0"},
	content.PageServizi:  {ChangeFreqMonthly, "0.9"},
	content.PageAzienda:  {ChangeFreqMonthly, "0.8"},
	content.PageContatti: {ChangeFreqMonthly, "0.8"},
	content.PagePrivacy:  {ChangeFreqYearly, "0.3"},
	content.PageCookie:   {ChangeFreqYearly, "0.3"},
}

// SitemapBuilder builds sitemap XML.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: siteURL}
}

// AddPage adds a site page. lastMod may be zero.
func (b *SitemapBuilder) AddPage(p content.PageType, lastMod time.Time) {
	rank, ok := pageRanks[p]
	if !ok {
		rank = pageRank{ChangeFreqMonthly, "0.5"}
	}
	u := SitemapURL{
		Loc:        b.siteURL + p.Path(),
		ChangeFreq: rank.freq,
		Priority:   rank.priority,
	}
	if p == content.PageHome {
		u.Loc = b.siteURL
	}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{XMLNS: XMLNamespace, URLs: b.urls}
	out := []byte(xml.Header)
	data, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, data...), nil
}

// GenerateSitemap lists every site page. lastMod maps a page to the time
// its document last changed; missing entries get no lastmod.
func GenerateSitemap(siteURL string, lastMod map[content.PageType]time.Time) ([]byte, error) {
	b := NewSitemapBuilder(siteURL)
	for _, p := range content.PageTypes {
		b.AddPage(p, lastMod[p])
	}
	return b.Build()
}
