package doctree

import (
	"fmt"
	"strings"
	"unicode"
)

// Heading is a flattened table-of-contents entry.
type Heading struct {
	Title              string `json:"title"`
	Slug               string `json:"slug"`
	Level              int    `json:"level"`
	TabbedSectionDepth int    `json:"tabbedSectionDepth"`
}

// URL returns the in-page anchor for the heading.
func (h Heading) URL() string { return "#" + h.Slug }

// Headings flattens the tree into document-order headings. A node's
// explicit anchor wins over its slugified title; repeated slugs get a
// numeric suffix the way rendered anchors do.
func Headings(tree *DocTree) []Heading {
	var out []Heading
	seen := map[string]int{}

	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" && n.Level > 0 {
				slug := n.Anchor
				if slug == "" {
					slug = Slugify(n.Title)
				}
				if c, ok := seen[slug]; ok {
					seen[slug] = c + 1
					slug = fmt.Sprintf("%s-%d", slug, c+1)
				} else {
					seen[slug] = 0
				}
				out = append(out, Heading{
					Title:              n.Title,
					Slug:               slug,
					Level:              n.Level,
					TabbedSectionDepth: n.TabDepth,
				})
			}
			walk(n.Children)
		}
	}
	walk(tree.Children)
	return out
}

// FilterTOC keeps the headings shown in a page's table of contents: <h1>
// and <h2> that are not nested inside <Tabs>.
func FilterTOC(headings []Heading) []Heading {
	out := make([]Heading, 0, len(headings))
	for _, h := range headings {
		if h.Level > 2 {
			continue
		}
		if h.TabbedSectionDepth != 0 {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Slugify turns a heading into an anchor slug: lowercase letters and
// digits, words joined by hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
