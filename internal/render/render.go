// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the site templates and renders pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/biemme2/biemme2-site/internal/consent"
	"github.com/biemme2/biemme2-site/internal/content"
	"github.com/biemme2/biemme2-site/internal/seo"
	"github.com/biemme2/biemme2-site/internal/util"
)

// blankLinesRegex matches runs of blank lines. Template sources are
// compacted with it before parsing so the output carries no empty lines
// left behind by actions.
var blankLinesRegex = regexp.MustCompile(`(?:\r?\n[ \t]*)+\r?\n`)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	media     *content.MediaResolver
	markdown  goldmark.Markdown
	ugc       *bluemonday.Policy
	logger    *slog.Logger
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Media       *content.MediaResolver
	Logger      *slog.Logger
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	if cfg.Media == nil {
		cfg.Media = content.NewMediaResolver("")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &Renderer{
		templates: make(map[string]*template.Template),
		media:     cfg.Media,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		ugc:    bluemonday.UGCPolicy(),
		logger: cfg.Logger,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates parses every page in pages/ together with the base
// layout and all partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}
	pages, err := templateFiles(templatesFS, "pages")
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")
		files := append([]string{"layouts/base.html"}, partials...)
		files = append(files, page)

		tmpl := template.New(name).Funcs(r.TemplateFuncs())
		for _, f := range files {
			src, err := fs.ReadFile(templatesFS, f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f, err)
			}
			src = blankLinesRegex.ReplaceAll(src, []byte("\n"))
			if _, err := tmpl.New(f).Parse(string(src)); err != nil {
				return fmt.Errorf("parsing template %s: %w", f, err)
			}
		}
		r.templates[name] = tmpl
	}
	return nil
}

// templateFiles returns all .html files in a directory.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// TemplateFuncs returns the functions available to templates.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"media": func(ref *content.MediaRef, static string) string {
			return r.media.URL(ref, static)
		},
		"mediaSize": func(ref *content.MediaRef, size, static string) string {
			return r.media.SizeURL(ref, size, static)
		},
		"mediaAlt": content.MediaAlt,
		"asset":    r.media.Normalize,
		"markdown": r.Markdown,
		"privacyHTML": func(rt content.RichText, info content.PrivacyCompanyInfo) template.HTML {
			return r.Markdown(content.ExpandCompanyPlaceholders(rt.Markdown(), info))
		},
		"tel":    TelHref,
		"anchor": util.Slugify,
		"field":  newFormField,
		"eqPath": func(current, href string) bool {
			if href == "/" {
				return current == "/"
			}
			return current == href || strings.HasPrefix(current, href+"/")
		},
	}
}

// TelHref turns a display number such as "035 4377 107" into a tel: URL.
func TelHref(phone string) string {
	var b strings.Builder
	for i, c := range phone {
		if (c >= '0' && c <= '9') || (c == '+' && i == 0) {
			b.WriteRune(c)
		}
	}
	return "tel:" + b.String()
}

// Markdown converts editor markdown to sanitized HTML.
func (r *Renderer) Markdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(md), &buf); err != nil {
		r.logger.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(r.ugc.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// FormField is an input of a re-rendered form.
type FormField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Error    string
	Required bool
}

// newFormField builds a field, restoring the submitted value and the
// validation message from the flash.
func newFormField(name, label, typ string, flash *Flash) FormField {
	f := FormField{Name: name, Label: label, Type: typ, Required: strings.HasSuffix(label, "*")}
	if flash != nil {
		f.Value = flash.Values[name]
		f.Error = flash.Errors[name]
	}
	return f
}

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Type    string            `json:"type"` // success or error
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
}

// ConsentData drives the cookie banner.
type ConsentData struct {
	ShowDialog bool
	Prefs      consent.Preferences
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Path             string
	Meta             seo.Meta
	JSONLD           []template.JS
	Header           content.Header
	Footer           content.Footer
	Page             any
	Flash            *Flash
	Consent          ConsentData
	AnalyticsHead    template.HTML
	AnalyticsBody    template.HTML
	RecaptchaSiteKey string
	CurrentYear      int
}

// Render renders a page template with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
