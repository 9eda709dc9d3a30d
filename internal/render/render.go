// Package render turns portal markdown into sanitised HTML.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// LinkRewriter maps a link destination to its new form.
type LinkRewriter interface {
	Rewrite(link string) string
}

var (
	descriptionMD = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy        = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("code", "pre", "span")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Description renders a variable or guide description. Empty input renders
// to the empty string.
func Description(md string) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := descriptionMD.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return strings.TrimSpace(policy.Sanitize(buf.String())), nil
}

// Tutorial renders tutorial markdown, passing every link destination
// through rw. A nil rw leaves links alone.
func Tutorial(md string, rw LinkRewriter) (string, error) {
	opts := []goldmark.Option{goldmark.WithExtensions(extension.GFM)}
	if rw != nil {
		opts = append(opts, goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(&linkTransformer{rw: rw}, 100)),
		))
	}
	var buf bytes.Buffer
	if err := goldmark.New(opts...).Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render tutorial: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

type linkTransformer struct {
	rw LinkRewriter
}

func (t *linkTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			dest := string(link.Destination)
			if rewritable(dest) {
				link.Destination = []byte(t.rw.Rewrite(dest))
			}
		}
		return ast.WalkContinue, nil
	})
}

// rewritable skips in-page anchors and non-web schemes.
func rewritable(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return false
	}
	lower := strings.ToLower(dest)
	for _, scheme := range []string{"mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}
