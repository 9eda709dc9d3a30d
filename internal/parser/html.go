package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles exported docs pages. Headings keep their id attribute
// as the anchor, and headings inside a <tabs> element carry a tab depth.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{Title: stem(filename)}
	if title := pageTitle(doc); title != "" {
		tree.Title = title
	}

	out := newOutline()
	tabDepth := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				out.heading(&doctree.DocNode{
					Title:    textContent(n),
					Level:    level,
					TabDepth: tabDepth,
					Anchor:   attr(n, "id"),
				})
				return
			}

			switch n.Data {
			case "script", "style", "template", "nav", "header", "footer", "aside":
				return
			case "p", "li", "td", "th", "dt", "dd", "blockquote", "pre":
				out.paragraph(textContent(n))
				return
			case "tabs":
				tabDepth++
				defer func() { tabDepth-- }()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(doc, "body"); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	out.into(tree)
	return tree, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// pageTitle reads <title>, dropping a " | Product" site suffix.
func pageTitle(doc *html.Node) string {
	t := findElement(doc, "title")
	if t == nil {
		return ""
	}
	title, _, _ := strings.Cut(textContent(t), " | ")
	return strings.TrimSpace(title)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
