package content

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RichText is a rich-text field. Editors produce a Lexical tree
// ({"root":{...}}) or a legacy Slate node list; bundled content is plain
// markdown. Markdown() flattens every form to markdown.
type RichText struct {
	markdown string
	nodes    []richNode
}

type richNode struct {
	Type     string     `json:"type"`
	Tag      string     `json:"tag,omitempty"`
	ListType string     `json:"listType,omitempty"`
	Text     string     `json:"text,omitempty"`
	Format   int        `json:"format,omitempty"`
	Bold     bool       `json:"bold,omitempty"`
	Italic   bool       `json:"italic,omitempty"`
	URL      string     `json:"url,omitempty"`
	Fields   *linkField `json:"fields,omitempty"`
	Children []richNode `json:"children,omitempty"`
}

type linkField struct {
	URL string `json:"url"`
}

// Lexical text format bit flags.
const (
	lexicalBold   = 1
	lexicalItalic = 2
)

// MarkdownText builds a RichText from markdown source.
func MarkdownText(md string) RichText {
	return RichText{markdown: md}
}

// IsZero reports whether the field holds no content.
func (r RichText) IsZero() bool {
	return strings.TrimSpace(r.markdown) == "" && len(r.nodes) == 0
}

// UnmarshalJSON accepts a markdown string, a Slate array or a Lexical object.
func (r *RichText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = RichText{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.markdown)
	case '[':
		return json.Unmarshal(data, &r.nodes)
	default:
		var doc struct {
			Root richNode `json:"root"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		r.nodes = doc.Root.Children
		return nil
	}
}

// MarshalJSON emits markdown as a string and editor trees as a Lexical root.
func (r RichText) MarshalJSON() ([]byte, error) {
	if len(r.nodes) == 0 {
		return json.Marshal(r.markdown)
	}
	return json.Marshal(map[string]richNode{
		"root": {Type: "root", Children: r.nodes},
	})
}

// Markdown returns the content as markdown.
func (r RichText) Markdown() string {
	if len(r.nodes) == 0 {
		return r.markdown
	}
	var b strings.Builder
	for _, n := range r.nodes {
		writeBlock(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func writeBlock(b *strings.Builder, n richNode) {
	switch n.Type {
	case "heading", "h1", "h2", "h3", "h4":
		level := 3
		tag := n.Tag
		if tag == "" {
			tag = n.Type
		}
		if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
			level = int(tag[1] - '0')
		}
		b.WriteString(strings.Repeat("#", level))
		b.WriteByte(' ')
		writeInline(b, n.Children)
		b.WriteString("\n\n")
	case "list", "ul", "ol":
		ordered := n.ListType == "number" || n.Type == "ol"
		for i, item := range n.Children {
			if ordered {
				b.WriteString(strconv.Itoa(i + 1))
				b.WriteString(". ")
			} else {
				b.WriteString("- ")
			}
			writeInline(b, item.Children)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	case "quote":
		b.WriteString("> ")
		writeInline(b, n.Children)
		b.WriteString("\n\n")
	default:
		writeInline(b, n.Children)
		if n.Text != "" {
			writeText(b, n)
		}
		b.WriteString("\n\n")
	}
}

func writeInline(b *strings.Builder, nodes []richNode) {
	for _, n := range nodes {
		switch {
		case n.Type == "link" || n.Type == "autolink":
			href := n.URL
			if n.Fields != nil && n.Fields.URL != "" {
				href = n.Fields.URL
			}
			b.WriteByte('[')
			writeInline(b, n.Children)
			b.WriteString("](")
			b.WriteString(href)
			b.WriteByte(')')
		case n.Type == "linebreak":
			b.WriteString("  \n")
		case len(n.Children) > 0:
			writeInline(b, n.Children)
		default:
			writeText(b, n)
		}
	}
}

func writeText(b *strings.Builder, n richNode) {
	text := n.Text
	if text == "" {
		return
	}
	bold := n.Bold || n.Format&lexicalBold != 0
	italic := n.Italic || n.Format&lexicalItalic != 0
	if italic {
		text = "*" + text + "*"
	}
	if bold {
		text = "**" + text + "**"
	}
	b.WriteString(text)
}

// ExpandCompanyPlaceholders substitutes {company.*} tokens that editors
// may use inside privacy sections.
func ExpandCompanyPlaceholders(md string, info PrivacyCompanyInfo) string {
	return strings.NewReplacer(
		"{company.name}", info.Name,
		"{company.address}", info.Address,
		"{company.email}", info.Email,
		"{company.phone}", info.Phone,
		"{company.vatNumber}", info.VATNumber,
	).Replace(md)
}
