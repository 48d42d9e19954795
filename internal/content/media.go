// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// MediaSize is one generated variant of an upload.
type MediaSize struct {
	URL      string `json:"url,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Filesize int64  `json:"filesize,omitempty"`
}

// MediaRef references an upload. The CMS sends either a populated upload
// object or, at shallow depth, a bare string (an id or a literal URL).
type MediaRef struct {
	ID       string               `json:"id,omitempty"`
	URL      string               `json:"url,omitempty"`
	Alt      string               `json:"alt,omitempty"`
	Filename string               `json:"filename,omitempty"`
	MimeType string               `json:"mimeType,omitempty"`
	Filesize int64                `json:"filesize,omitempty"`
	Width    int                  `json:"width,omitempty"`
	Height   int                  `json:"height,omitempty"`
	Sizes    map[string]MediaSize `json:"sizes,omitempty"`

	// Literal holds the string form. It is empty when the object form was used.
	Literal string `json:"-"`
}

// mediaObject avoids recursion into MediaRef's own (Un)MarshalJSON.
type mediaObject MediaRef

// UnmarshalJSON accepts both the string and the object form.
func (m *MediaRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MediaRef{Literal: s}
		return nil
	}
	// Payload sends numeric ids on SQL adapters.
	if data[0] != '{' {
		*m = MediaRef{Literal: string(data)}
		return nil
	}
	// The outer ID shadows mediaObject.ID so numeric ids decode too.
	var obj struct {
		mediaObject
		ID json.RawMessage `json:"id,omitempty"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding media: %w", err)
	}
	*m = MediaRef(obj.mediaObject)
	id, err := mediaID(obj.ID)
	if err != nil {
		return fmt.Errorf("decoding media id: %w", err)
	}
	m.ID = id
	return nil
}

// mediaID accepts a string or a number.
func mediaID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// MarshalJSON writes the string form back when only a literal is set.
func (m MediaRef) MarshalJSON() ([]byte, error) {
	if m.Literal != "" && m.isObjectEmpty() {
		return json.Marshal(m.Literal)
	}
	return json.Marshal(mediaObject(m))
}

func (m MediaRef) isObjectEmpty() bool {
	return m.ID == "" && m.URL == "" && m.Alt == "" && m.Filename == "" &&
		m.MimeType == "" && m.Filesize == 0 && m.Width == 0 && m.Height == 0 && len(m.Sizes) == 0
}

// StaticMedia is a MediaRef pointing at a file shipped under public/.
func StaticMedia(path string) *MediaRef {
	return &MediaRef{Literal: path}
}

// MediaURL picks a display URL: the resolved object URL first, then the
// literal string, then staticPath.
func MediaURL(ref *MediaRef, staticPath string) string {
	if ref != nil {
		if u := strings.TrimSpace(ref.URL); u != "" {
			return u
		}
		if l := strings.TrimSpace(ref.Literal); l != "" {
			return l
		}
	}
	return staticPath
}

// MediaAlt returns the upload alt text or def.
func MediaAlt(ref *MediaRef, def string) string {
	if ref != nil && strings.TrimSpace(ref.Alt) != "" {
		return ref.Alt
	}
	return def
}

// MediaResolver turns media references into absolute or site-relative URLs.
type MediaResolver struct {
	serverURL string
}

// NewMediaResolver creates a resolver for uploads hosted at serverURL.
// An empty serverURL leaves CMS paths site-relative.
func NewMediaResolver(serverURL string) *MediaResolver {
	return &MediaResolver{serverURL: strings.TrimRight(strings.TrimSpace(serverURL), "/")}
}

// Normalize maps a raw media value to a URL:
// static /img/ paths and absolute URLs are kept, other root-relative paths
// are served by the CMS, bare ids point at the media endpoint.
func (r *MediaResolver) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "/img/"):
		return raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "/"):
		return r.serverURL + raw
	default:
		return r.serverURL + "/media/" + url.PathEscape(raw)
	}
}

// URL resolves ref to a display URL, falling back to staticPath.
func (r *MediaResolver) URL(ref *MediaRef, staticPath string) string {
	u := MediaURL(ref, "")
	if u == "" {
		return staticPath
	}
	return r.Normalize(u)
}

// SizeURL returns the URL of a named variant (e.g. "thumbnail", "card"),
// falling back to the original.
func (r *MediaResolver) SizeURL(ref *MediaRef, size, staticPath string) string {
	if ref != nil {
		if s, ok := ref.Sizes[size]; ok && strings.TrimSpace(s.URL) != "" {
			return r.Normalize(s.URL)
		}
	}
	return r.URL(ref, staticPath)
}
