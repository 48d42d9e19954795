package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed legal/privacy/*.md
var legalFS embed.FS

type sectionFrontMatter struct {
	Title string `yaml:"title"`
	Order int    `yaml:"order"`
}

type legalSection struct {
	order int
	PrivacySection
}

var loadPrivacySections = sync.OnceValues(func() ([]legalSection, error) {
	return readLegalSections(legalFS, "legal/privacy")
})

// privacySections returns a fresh copy of the bundled privacy sections.
// The files are compiled in and covered by tests, so a parse failure is a
// build defect.
func privacySections() []PrivacySection {
	sections, err := loadPrivacySections()
	if err != nil {
		panic(err)
	}
	out := make([]PrivacySection, len(sections))
	for i, s := range sections {
		out[i] = s.PrivacySection
	}
	return out
}

func readLegalSections(fsys fs.FS, dir string) ([]legalSection, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var sections []legalSection
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		file := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		fm, body := splitFrontMatter(string(data))
		var front sectionFrontMatter
		if strings.TrimSpace(fm) != "" {
			if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
				return nil, fmt.Errorf("parse front matter %s: %w", file, err)
			}
		}
		if strings.TrimSpace(front.Title) == "" {
			return nil, fmt.Errorf("%s: missing title", file)
		}
		sections = append(sections, legalSection{
			order: front.Order,
			PrivacySection: PrivacySection{
				Title:   strings.TrimSpace(front.Title),
				Content: MarkdownText(strings.TrimSpace(body)),
			},
		})
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].order < sections[j].order })
	return sections, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}
