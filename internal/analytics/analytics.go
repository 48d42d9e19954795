// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics renders the third-party tracking snippets. Nothing is
// emitted until the visitor has granted analytics consent.
package analytics

import (
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"

	"github.com/biemme2/biemme2-site/internal/consent"
)

// Tracker id formats. Ids that do not match are ignored so a typo in the
// environment cannot inject markup.
var (
	ga4Pattern   = regexp.MustCompile(`^G-[A-Z0-9]{4,20}$`)
	gtmPattern   = regexp.MustCompile(`^GTM-[A-Z0-9]{4,12}$`)
	pixelPattern = regexp.MustCompile(`^[0-9]{6,20}$`)
)

// Settings holds the configured tracker ids. Empty ids are disabled.
type Settings struct {
	GA4MeasurementID string
	GTMContainerID   string
	MetaPixelID      string
}

// Trackers renders snippets for the enabled trackers.
type Trackers struct {
	settings Settings
}

// New validates the ids and returns the trackers. Invalid ids are
// dropped with a warning.
func New(s Settings, logger *slog.Logger) *Trackers {
	if logger == nil {
		logger = slog.Default()
	}
	check := func(name, id string, re *regexp.Regexp) string {
		id = strings.TrimSpace(id)
		if id == "" || re.MatchString(id) {
			return id
		}
		logger.Warn("ignoring malformed analytics id", "tracker", name, "id", id)
		return ""
	}
	return &Trackers{settings: Settings{
		GA4MeasurementID: check("ga4", s.GA4MeasurementID, ga4Pattern),
		GTMContainerID:   check("gtm", s.GTMContainerID, gtmPattern),
		MetaPixelID:      check("meta_pixel", s.MetaPixelID, pixelPattern),
	}}
}

// Enabled reports whether any tracker is configured.
func (t *Trackers) Enabled() bool {
	s := t.settings
	return s.GA4MeasurementID != "" || s.GTMContainerID != "" || s.MetaPixelID != ""
}

// Head returns the scripts for the <head> section.
func (t *Trackers) Head(state consent.State) template.HTML {
	if !state.Allows(consent.CategoryAnalytics) {
		return ""
	}
	s := t.settings
	var scripts strings.Builder

	if s.GA4MeasurementID != "" || s.GTMContainerID != "" {
		scripts.WriteString(consentMode(state))
	}

	if s.GA4MeasurementID != "" {
		fmt.Fprintf(&scripts, `<!-- Google Analytics 4 -->
<script async src="https://www.googletagmanager.com/gtag/js?id=%[1]s"></script>
<script>
  window.dataLayer = window.dataLayer || [];
  function gtag(){dataLayer.push(arguments);}
  gtag('js', new Date());
  gtag('config', '%[1]s', { page_path: window.location.pathname });
</script>
`, s.GA4MeasurementID)
	}

	if s.GTMContainerID != "" {
		fmt.Fprintf(&scripts, `<!-- Google Tag Manager -->
<script>(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':
new Date().getTime(),event:'gtm.js'});var f=d.getElementsByTagName(s)[0],
j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;j.src=
'https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);
})(window,document,'script','dataLayer','%s');</script>
`, s.GTMContainerID)
	}

	if s.MetaPixelID != "" {
		fmt.Fprintf(&scripts, `<!-- Meta Pixel -->
<script>
!function(f,b,e,v,n,t,s)
{if(f.fbq)return;n=f.fbq=function(){n.callMethod?
n.callMethod.apply(n,arguments):n.queue.push(arguments)};
if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';
n.queue=[];t=b.createElement(e);t.async=!0;
t.src=v;s=b.getElementsByTagName(e)[0];
s.parentNode.insertBefore(t,s)}(window, document,'script',
'https://connect.facebook.net/en_US/fbevents.js');
fbq('init', '%[1]s');
fbq('track', 'PageView');
</script>
<noscript><img height="1" width="1" style="display:none" alt=""
src="https://www.facebook.com/tr?id=%[1]s&amp;ev=PageView&amp;noscript=1"></noscript>
`, s.MetaPixelID)
	}

	return template.HTML(scripts.String()) //nolint:gosec // ids validated in New
}

// consentMode declares the visitor's decision to Google tags (Consent
// Mode v2) before any of them loads.
func consentMode(state consent.State) string {
	grant := func(c consent.Category) string {
		if state.Allows(c) {
			return "granted"
		}
		return "denied"
	}
	a, f := grant(consent.CategoryAnalytics), grant(consent.CategoryFunctional)
	return fmt.Sprintf(`<!-- Google Consent Mode v2 -->
<script>
  window.dataLayer = window.dataLayer || [];
  function gtag(){dataLayer.push(arguments);}
  gtag('consent', 'default', {
    'analytics_storage': '%[1]s',
    'ad_storage': '%[1]s',
    'ad_user_data': '%[1]s',
    'ad_personalization': '%[1]s',
    'functionality_storage': '%[2]s',
    'personalization_storage': '%[2]s',
    'security_storage': 'granted'
  });
</script>
`, a, f)
}

// Body returns the markup for the start of <body>.
func (t *Trackers) Body(state consent.State) template.HTML {
	if !state.Allows(consent.CategoryAnalytics) || t.settings.GTMContainerID == "" {
		return ""
	}
	return template.HTML(fmt.Sprintf(`<!-- Google Tag Manager (noscript) -->
<noscript><iframe src="https://www.googletagmanager.com/ns.html?id=%s"
height="0" width="0" style="display:none;visibility:hidden" title="Google Tag Manager"></iframe></noscript>
`, t.settings.GTMContainerID))
}
