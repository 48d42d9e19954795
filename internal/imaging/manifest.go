package imaging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Group applies the same variants to every source matching its patterns.
type Group struct {
	Name     string    `yaml:"name"`
	Sources  []string  `yaml:"sources"`
	Variants []Variant `yaml:"variants"`
}

// Manifest lists the image jobs. Source patterns are relative to SourceDir
// and outputs land in OutputDir.
type Manifest struct {
	SourceDir string  `yaml:"source_dir"`
	OutputDir string  `yaml:"output_dir"`
	Groups    []Group `yaml:"groups"`
}

// DefaultManifest covers the images the site ships with.
func DefaultManifest() Manifest {
	return Manifest{
		SourceDir: "./assets/img",
		OutputDir: "./public/img",
		Groups: []Group{
			{
				Name:    "heroes",
				Sources: []string{"hero-*.webp", "hero-*.jpg"},
				Variants: []Variant{
					{Suffix: "desktop", Width: 1920, Quality: 70},
					{Suffix: "mobile", Width: 828, Quality: 45},
				},
			},
			{
				Name:    "team",
				Sources: []string{"team/*.jpg", "team/*.png", "team/*.webp"},
				Variants: []Variant{
					{Suffix: "thumb", Width: 400, Height: 400, Crop: true, Quality: 80},
				},
			},
			{
				Name:    "certifications",
				Sources: []string{"certificazioni/*.png", "certificazioni/*.jpg"},
				Variants: []Variant{
					{Suffix: "thumb", Width: 320, Height: 320, Quality: 85},
				},
			},
		},
	}
}

// LoadManifest reads a YAML manifest. Missing directories take the
// defaults.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	def := DefaultManifest()
	if m.SourceDir == "" {
		m.SourceDir = def.SourceDir
	}
	if m.OutputDir == "" {
		m.OutputDir = def.OutputDir
	}
	return m, m.Validate()
}

// Validate checks that every group can run.
func (m Manifest) Validate() error {
	var errs []error
	for i, g := range m.Groups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if len(g.Sources) == 0 {
			errs = append(errs, fmt.Errorf("group %s: no sources", name))
		}
		if len(g.Variants) == 0 {
			errs = append(errs, fmt.Errorf("group %s: no variants", name))
		}
		for _, v := range g.Variants {
			switch {
			case v.Width < 0 || v.Height < 0:
				errs = append(errs, fmt.Errorf("group %s: negative size in %q", name, v.Suffix))
			case v.Width == 0 && v.Height == 0:
				errs = append(errs, fmt.Errorf("group %s: variant %q needs a width or height", name, v.Suffix))
			case v.Crop && (v.Width == 0 || v.Height == 0):
				errs = append(errs, fmt.Errorf("group %s: crop variant %q needs width and height", name, v.Suffix))
			case v.Format != "" && v.Format != "jpeg" && v.Format != "png":
				errs = append(errs, fmt.Errorf("group %s: unknown format %q", name, v.Format))
			}
		}
	}
	return errors.Join(errs...)
}

// Job is one source with the variants to produce.
type Job struct {
	Group  string
	Source string
	// Subdir mirrors the source's directory below SourceDir.
	Subdir   string
	Variants []Variant
}

// Jobs expands the source patterns. Each file appears once per group.
func (m Manifest) Jobs() ([]Job, error) {
	var jobs []Job
	for _, g := range m.Groups {
		seen := make(map[string]bool)
		for _, pattern := range g.Sources {
			matches, err := filepath.Glob(filepath.Join(m.SourceDir, pattern))
			if err != nil {
				return nil, fmt.Errorf("group %s: pattern %q: %w", g.Name, pattern, err)
			}
			sort.Strings(matches)
			for _, src := range matches {
				if seen[src] {
					continue
				}
				seen[src] = true
				sub, err := filepath.Rel(m.SourceDir, filepath.Dir(src))
				if err != nil || sub == "." {
					sub = ""
				}
				jobs = append(jobs, Job{Group: g.Name, Source: src, Subdir: sub, Variants: g.Variants})
			}
		}
	}
	return jobs, nil
}
