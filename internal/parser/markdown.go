package parser

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown and MDX pages using goldmark.
type MarkdownParser struct{}

var (
	tabsOpenRe  = regexp.MustCompile(`<Tabs[\s>]`)
	tabsCloseRe = regexp.MustCompile(`</Tabs\s*>`)
)

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fm, body, err := ParseFrontMatter(string(raw))
	if err != nil {
		return nil, err
	}
	src := []byte(body)

	md := goldmark.New(goldmark.WithParserOptions(gmparser.WithHeadingAttribute()))
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	tree := &doctree.DocTree{Title: stem(filename)}
	if t := fm.DisplayTitle(); t != "" {
		tree.Title = t
	}

	out := newOutline()
	tabDepth := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			out.heading(&doctree.DocNode{
				Title:    string(node.Text(src)),
				Level:    node.Level,
				TabDepth: tabDepth,
				Anchor:   headingID(node),
			})

		case *ast.HTMLBlock:
			// MDX components arrive as HTML blocks; only <Tabs> matters here.
			block := blockText(node, src)
			tabDepth += len(tabsOpenRe.FindAllStringIndex(block, -1))
			tabDepth -= len(tabsCloseRe.FindAllStringIndex(block, -1))
			tabDepth = max(tabDepth, 0)

		default:
			out.paragraph(extractText(n, src))
		}
	}
	out.into(tree)
	return tree, nil
}

// headingID returns an explicit {#id} anchor when the heading carries one.
func headingID(h *ast.Heading) string {
	if v, ok := h.AttributeString("id"); ok {
		if b, ok := v.([]byte); ok {
			return string(b)
		}
	}
	return ""
}

func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	if hb, ok := n.(*ast.HTMLBlock); ok && hb.HasClosure() {
		buf.Write(hb.ClosureLine.Value(src))
	}
	return buf.String()
}

// extractText returns the source lines of a leaf block, or the text of each
// child block for containers such as lists and block quotes.
func extractText(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	if lines := n.Lines(); lines.Len() > 0 {
		var buf bytes.Buffer
		for i := range lines.Len() {
			buf.Write(lines.At(i).Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := extractText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
