// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := jpeg.Encode(f, createTestImage(w, h), nil); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, createTestImage(w, h)); err != nil {
		t.Fatal(err)
	}
}

func TestProcess_HeroVariants(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Hero 1.jpg")
	writeJPEG(t, src, 1000, 500)

	out := filepath.Join(dir, "out")
	results, err := NewProcessor(out, false).Process(src, "", []Variant{
		{Suffix: "desktop", Width: 1920, Quality: 70},
		{Suffix: "mobile", Width: 400, Quality: 45},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}

	if !results[0].Skipped {
		t.Error("desktop variant should be skipped for a smaller source")
	}
	mobile := results[1]
	if mobile.Skipped || mobile.Width != 400 || mobile.Height != 200 {
		t.Errorf("mobile = %+v, want 400x200", mobile)
	}
	if filepath.Base(mobile.FilePath) != "hero-1-mobile.jpg" {
		t.Errorf("mobile path = %s", mobile.FilePath)
	}
	w, h, err := dimensions(mobile.FilePath)
	if err != nil || w != 400 || h != 200 {
		t.Errorf("written file %dx%d, err %v", w, h, err)
	}
}

func TestProcess_CropKeepsPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rossi.png")
	writePNG(t, src, 300, 200)

	results, err := NewProcessor(dir, false).Process(src, "team", []Variant{
		{Suffix: "thumb", Width: 100, Height: 100, Crop: true},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	r := results[0]
	if r.Width != 100 || r.Height != 100 {
		t.Errorf("thumb = %dx%d", r.Width, r.Height)
	}
	if r.FilePath != filepath.Join(dir, "team", "rossi-thumb.png") {
		t.Errorf("FilePath = %s", r.FilePath)
	}
}

func TestProcess_DryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hero.jpg")
	writeJPEG(t, src, 200, 100)

	out := filepath.Join(dir, "out")
	results, err := NewProcessor(out, true).Process(src, "", []Variant{{Suffix: "small", Width: 50}})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Size == 0 {
		t.Error("dry run should still encode")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run wrote files")
	}
}

func TestProcess_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hero.jpg")
	writeJPEG(t, src, 200, 100)

	if _, err := NewProcessor(filepath.Join(dir, "out"), false).Process(src, "../..", []Variant{{Suffix: "x", Width: 50}}); err == nil {
		t.Error("expected error for subdir escaping the output directory")
	}
}

func TestLoad_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err != ErrUnsupportedFormat {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestResize(t *testing.T) {
	img := createTestImage(800, 400)
	tests := []struct {
		name    string
		v       Variant
		wantW   int
		wantH   int
		resized bool
	}{
		{"width only", Variant{Width: 200}, 200, 100, true},
		{"height only", Variant{Height: 100}, 200, 100, true},
		{"fit box", Variant{Width: 100, Height: 100}, 100, 50, true},
		{"no enlargement", Variant{Width: 1600}, 800, 400, false},
		{"crop", Variant{Width: 50, Height: 50, Crop: true}, 50, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Resize(img, tt.v)
			b := out.Bounds()
			if ok != tt.resized || b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Resize() = %dx%d (%v), want %dx%d (%v)", b.Dx(), b.Dy(), ok, tt.wantW, tt.wantH, tt.resized)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"webp magic bytes", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"gif", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, ""},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(20, 10)
	for orientation, want := range map[int][2]int{
		1: {20, 10}, 2: {20, 10}, 3: {20, 10}, 4: {20, 10},
		5: {10, 20}, 6: {10, 20}, 7: {10, 20}, 8: {10, 20},
		0: {20, 10}, 9: {20, 10},
	} {
		b := applyOrientation(img, orientation).Bounds()
		if b.Dx() != want[0] || b.Dy() != want[1] {
			t.Errorf("orientation %d: %dx%d, want %dx%d", orientation, b.Dx(), b.Dy(), want[0], want[1])
		}
	}
}

func dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()
	cfg, _, err := image.DecodeConfig(f)
	return cfg.Width, cfg.Height, err
}
