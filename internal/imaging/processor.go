// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging produces the resized images the site serves from /img:
// hero variants for desktop and mobile and the team and certification
// thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/biemme2/biemme2-site/internal/util"
)

// ErrUnsupportedFormat is returned for sources that are not JPEG, PNG or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Variant describes one output derived from a source image.
type Variant struct {
	// Suffix is appended to the slugified source name ("mobile").
	Suffix string `yaml:"suffix"`
	// Width and Height bound the output. Zero keeps the aspect ratio.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Crop fills Width x Height from the center instead of fitting.
	Crop    bool `yaml:"crop"`
	Quality int  `yaml:"quality"`
	// Format is jpeg or png. Empty picks png for sources with alpha
	// (png) and jpeg otherwise.
	Format string `yaml:"format"`
}

// Result describes a written variant.
type Result struct {
	Source   string
	Suffix   string
	Width    int
	Height   int
	Size     int64
	FilePath string
	// Skipped is set when the source is already smaller than the variant.
	Skipped bool
}

// Processor writes variants into outDir.
type Processor struct {
	outDir string
	dryRun bool
}

// NewProcessor creates a processor writing into outDir. With dryRun the
// variants are computed but not written.
func NewProcessor(outDir string, dryRun bool) *Processor {
	return &Processor{outDir: outDir, dryRun: dryRun}
}

// Load decodes the image at path and applies its EXIF orientation.
func Load(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return decode(data)
}

func decode(data []byte) (image.Image, string, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, "", ErrUnsupportedFormat
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	if format == "jpeg" {
		img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	}
	return img, format, nil
}

// Process writes every variant of the source at path into subdir of the
// output directory.
func (p *Processor) Process(path, subdir string, variants []Variant) ([]Result, error) {
	img, srcFormat, err := Load(path)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(variants))
	for _, v := range variants {
		res, err := p.variant(img, srcFormat, path, subdir, v)
		if err != nil {
			return results, fmt.Errorf("%s variant of %s: %w", v.Suffix, filepath.Base(path), err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Processor) variant(img image.Image, srcFormat, path, subdir string, v Variant) (Result, error) {
	format := v.Format
	if format == "" {
		format = "jpeg"
		if srcFormat == "png" {
			format = "png"
		}
	}
	name := util.VariantName(path, v.Suffix, extension(format))
	res := Result{Source: path, Suffix: v.Suffix}

	resized, ok := Resize(img, v)
	if !ok {
		res.Skipped = true
		b := img.Bounds()
		res.Width, res.Height = b.Dx(), b.Dy()
		return res, nil
	}
	b := resized.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()

	data, err := encodeImage(resized, format, v.Quality)
	if err != nil {
		return res, fmt.Errorf("encoding: %w", err)
	}
	res.Size = int64(len(data))

	target, err := util.SafeJoinPath(p.outDir, subdir, name)
	if err != nil {
		return res, err
	}
	res.FilePath = target
	if p.dryRun {
		return res, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return res, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", target, err)
	}
	return res, nil
}

// Resize applies v to img. It reports false when fitting would enlarge
// the image; crops always run.
func Resize(img image.Image, v Variant) (image.Image, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if v.Crop && v.Width > 0 && v.Height > 0 {
		return imaging.Fill(img, v.Width, v.Height, imaging.Center, imaging.Lanczos), true
	}
	if (v.Width == 0 || w <= v.Width) && (v.Height == 0 || h <= v.Height) {
		return img, false
	}
	switch {
	case v.Width > 0 && v.Height > 0:
		return imaging.Fit(img, v.Width, v.Height, imaging.Lanczos), true
	case v.Width > 0:
		return imaging.Resize(img, v.Width, 0, imaging.Lanczos), true
	default:
		return imaging.Resize(img, 0, v.Height, imaging.Lanczos), true
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes img as jpeg or png. There is no pure Go WebP
// encoder, so WebP sources come out as JPEG.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	var buf bytes.Buffer
	var err error
	if format == "png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func extension(format string) string {
	if format == "png" {
		return ".png"
	}
	return ".jpg"
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}
