package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeFilename keeps only the base name of filename and rejects names
// that resolve to a directory.
func SanitizeFilename(filename string) (string, error) {
	safe := filepath.Base(filename)
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return safe, nil
}

// SafeJoinPath joins components onto base and fails when the result
// escapes base.
func SafeJoinPath(base string, components ...string) (string, error) {
	full := filepath.Join(append([]string{base}, components...)...)

	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	// trailing separator so /public-evil does not match /public
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %q", full, base)
	}
	return full, nil
}

// VariantName builds the file name of an image variant:
// ("Hero 1.webp", "mobile", ".jpg") -> "hero-1-mobile.jpg".
func VariantName(src, suffix, ext string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := Slugify(base)
	if suffix != "" {
		name += "-" + Slugify(suffix)
	}
	return name + ext
}
