// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ErrInvalidDocument is returned by Merge when the remote document is not
// a JSON object.
var ErrInvalidDocument = errors.New("content: invalid document")

// ErrFieldMismatch is returned by Merge when some remote fields do not fit
// the page type. Those fields keep their fallback value; every other
// field of the document is still applied.
var ErrFieldMismatch = errors.New("content: fields do not fit the page type")

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// Merge overlays a remote document on top of fallback.
//
//   - an absent or null document yields fallback unchanged;
//   - objects are merged key by key at every depth;
//   - scalars present in the document win, empty strings included;
//   - null values count as absent;
//   - a non-empty array replaces the fallback array as a whole, an empty
//     one keeps the fallback;
//   - a value that cannot be decoded into its field is skipped.
//
// On ErrInvalidDocument the fallback is returned. On ErrFieldMismatch the
// result holds every field that did fit.
func Merge[T any](fallback T, remote json.RawMessage) (T, error) {
	remote = bytes.TrimSpace(remote)
	if len(remote) == 0 || bytes.Equal(remote, []byte("null")) {
		return fallback, nil
	}

	var overlay map[string]any
	if err := decodeJSON(remote, &overlay); err != nil || overlay == nil {
		return fallback, fmt.Errorf("%w: expected a JSON object", ErrInvalidDocument)
	}

	base, err := toMap(fallback)
	if err != nil {
		return fallback, err
	}
	var skipped []string
	overlayStruct(base, overlay, indirect(reflect.TypeFor[T]()), "", &skipped)

	merged, err := json.Marshal(base)
	if err != nil {
		return fallback, fmt.Errorf("encoding merged document: %w", err)
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return fallback, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(skipped) > 0 {
		return out, fmt.Errorf("%w: %s", ErrFieldMismatch, strings.Join(skipped, ", "))
	}
	return out, nil
}

// MergeFooter merges like Merge but always keeps the fallback link columns.
// Footer navigation stays under code control; editors may change every
// other footer field.
func MergeFooter(fallback Footer, remote json.RawMessage) (Footer, error) {
	columns := fallback.Columns
	merged, err := Merge(fallback, remote)
	merged.Columns = columns
	return merged, err
}

// CheckDocument reports whether doc applies cleanly to the page or layout
// document stored under slug.
func CheckDocument(slug string, doc json.RawMessage) error {
	var err error
	switch slug {
	case PageHome.Slug():
		_, err = Merge(FallbackHomePage(), doc)
	case PageServizi.Slug():
		_, err = Merge(FallbackServiziPage(), doc)
	case PageAzienda.Slug():
		_, err = Merge(FallbackAziendaPage(), doc)
	case PageContatti.Slug():
		_, err = Merge(FallbackContattiPage(), doc)
	case PagePrivacy.Slug():
		_, err = Merge(FallbackPrivacyPage(), doc)
	case PageCookie.Slug():
		_, err = Merge(FallbackCookiePage(), doc)
	case SlugHeader:
		_, err = Merge(FallbackHeader(), doc)
	case SlugFooter:
		_, err = MergeFooter(FallbackFooter(), doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPage, slug)
	}
	return err
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding fallback: %w", err)
	}
	m := map[string]any{}
	if err := decodeJSON(data, &m); err != nil {
		return nil, fmt.Errorf("decoding fallback: %w", err)
	}
	return m, nil
}

// decodeJSON keeps numbers as json.Number so large ids and coordinates
// survive the round trip untouched.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// overlayStruct applies src onto dst, the JSON form of a value of type t.
// Keys unknown to t are ignored, as json.Unmarshal would. Paths of values
// that do not fit their field are appended to skipped.
func overlayStruct(dst, src map[string]any, t reflect.Type, path string, skipped *[]string) {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := src[key]
		if value == nil {
			continue
		}
		ft, ok := fieldType(t, key)
		if !ok {
			continue
		}
		p := key
		if path != "" {
			p = path + "." + key
		}

		switch v := value.(type) {
		case map[string]any:
			existing, isMap := dst[key].(map[string]any)
			if st := indirect(ft); st.Kind() == reflect.Struct && !isUnmarshaler(ft) {
				if !isMap {
					existing = map[string]any{}
				}
				overlayStruct(existing, v, st, p, skipped)
				if isMap || len(existing) > 0 {
					dst[key] = existing
				}
				continue
			}
			candidate := any(v)
			if isMap {
				m := cloneMap(existing)
				overlayMap(m, v)
				candidate = m
			}
			if fits(ft, candidate) {
				dst[key] = candidate
			} else {
				*skipped = append(*skipped, p)
			}
		case []any:
			if len(v) == 0 {
				continue
			}
			if fits(ft, v) {
				dst[key] = v
			} else {
				*skipped = append(*skipped, p)
			}
		default:
			if fits(ft, v) {
				dst[key] = v
			} else {
				*skipped = append(*skipped, p)
			}
		}
	}
}

// overlayMap merges src into dst without type information.
func overlayMap(dst, src map[string]any) {
	for key, value := range src {
		switch v := value.(type) {
		case nil:
			continue
		case map[string]any:
			if existing, ok := dst[key].(map[string]any); ok {
				overlayMap(existing, v)
				continue
			}
			dst[key] = v
		case []any:
			if len(v) > 0 {
				dst[key] = v
			}
		default:
			dst[key] = v
		}
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if inner, ok := v.(map[string]any); ok {
			v = cloneMap(inner)
		}
		out[k] = v
	}
	return out
}

// fits reports whether v decodes into a value of type t.
func fits(t reflect.Type, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, reflect.New(t).Interface()) == nil
}

// fieldType finds the struct field json.Unmarshal would fill for key:
// exact tag match first, then case-insensitive.
func fieldType(t reflect.Type, key string) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	var folded reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && indirect(f.Type).Kind() == reflect.Struct && f.Tag.Get("json") == "" {
			if ft, ok := fieldType(indirect(f.Type), key); ok {
				return ft, true
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if name == key {
			return f.Type, true
		}
		if folded == nil && strings.EqualFold(name, key) {
			folded = f.Type
		}
	}
	return folded, folded != nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func isUnmarshaler(t reflect.Type) bool {
	return t.Implements(unmarshalerType) || reflect.PointerTo(t).Implements(unmarshalerType)
}
