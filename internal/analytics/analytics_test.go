package analytics

import (
	"strings"
	"testing"

	"github.com/biemme2/biemme2-site/internal/consent"
	"github.com/biemme2/biemme2-site/internal/testutil"
)

var granted = consent.State{Recorded: true, Record: consent.Record{Analytics: true, Version: consent.Version}}

func allTrackers() *Trackers {
	return New(Settings{
		GA4MeasurementID: "G-ABC123XYZ",
		GTMContainerID:   "GTM-K9LM2N",
		MetaPixelID:      "123456789012345",
	}, testutil.TestLoggerSilent())
}

func TestHead_RequiresConsent(t *testing.T) {
	tr := allTrackers()

	tests := []struct {
		name  string
		state consent.State
	}{
		{"unset", consent.State{}},
		{"rejected", consent.State{Recorded: true, Record: consent.Record{Functional: true, Version: consent.Version}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Head(tt.state); got != "" {
				t.Errorf("Head() = %q, want empty", got)
			}
			if got := tr.Body(tt.state); got != "" {
				t.Errorf("Body() = %q, want empty", got)
			}
		})
	}
}

func TestHead_Granted(t *testing.T) {
	head := string(allTrackers().Head(granted))

	for _, want := range []string{
		"gtag/js?id=G-ABC123XYZ",
		"gtag('config', 'G-ABC123XYZ'",
		"'analytics_storage': 'granted'",
		"'dataLayer','GTM-K9LM2N'",
		"fbq('init', '123456789012345')",
		"tr?id=123456789012345&amp;ev=PageView",
	} {
		if !strings.Contains(head, want) {
			t.Errorf("Head() missing %q", want)
		}
	}

	body := string(allTrackers().Body(granted))
	if !strings.Contains(body, "ns.html?id=GTM-K9LM2N") {
		t.Errorf("Body() = %q, want GTM noscript iframe", body)
	}
}

func TestNew_DropsMalformedIDs(t *testing.T) {
	tr := New(Settings{
		GA4MeasurementID: "G-1'); alert(1); //",
		GTMContainerID:   "<script>",
		MetaPixelID:      "abc",
	}, testutil.TestLoggerSilent())

	if tr.Enabled() {
		t.Error("Enabled() = true for malformed ids")
	}
	if got := tr.Head(granted); got != "" {
		t.Errorf("Head() = %q, want empty", got)
	}
}

func TestOnlyGA4(t *testing.T) {
	tr := New(Settings{GA4MeasurementID: "G-ONLY1234"}, nil)
	head := string(tr.Head(granted))
	if strings.Contains(head, "fbq(") || strings.Contains(head, "gtm.js") {
		t.Errorf("Head() renders disabled trackers: %s", head)
	}
	if !strings.Contains(head, "'functionality_storage': 'denied'") {
		t.Errorf("Head() should deny functional storage without consent: %s", head)
	}
	if tr.Body(granted) != "" {
		t.Error("Body() without GTM should be empty")
	}
}
