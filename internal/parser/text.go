package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
)

// underlineRe matches a setext heading underline: "===" marks level 1 and
// "---" marks level 2.
var underlineRe = regexp.MustCompile(`^(={3,}|-{3,})$`)

// TextParser handles plain text pages. A line underlined with "=" or "-"
// opens a section; everything else is paragraph text.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	out := newOutline()
	var para []string
	flush := func() {
		out.paragraph(strings.Join(para, "\n"))
		para = para[:0]
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case underlineRe.MatchString(trimmed):
			if len(para) == 0 {
				// A bare rule separates paragraphs.
				continue
			}
			title := strings.TrimSpace(para[len(para)-1])
			para = para[:len(para)-1]
			flush()
			level := 1
			if trimmed[0] == '-' {
				level = 2
			}
			out.heading(&doctree.DocNode{Title: title, Level: level})
		default:
			para = append(para, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	tree := &doctree.DocTree{Title: stem(filename)}
	out.into(tree)
	return tree, nil
}
