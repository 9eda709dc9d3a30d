package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/fumiama/go-docx"
)

// docxHeadingRe matches Word heading style ids and names, e.g. "Heading2"
// or "heading 2".
var docxHeadingRe = regexp.MustCompile(`(?i)^heading\s*([1-6])$`)

// DOCXParser handles Word exports of guide pages. Heading styles open
// sections, the "Title" style names the page, and table cells are text.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	tree := &doctree.DocTree{Title: stem(filename)}
	out := newOutline()
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(it)
			if text == "" {
				continue
			}
			style := docxStyle(it)
			if strings.EqualFold(style, "Title") {
				tree.Title = text
				continue
			}
			if level := docxHeadingLevel(style); level > 0 {
				out.heading(&doctree.DocNode{Title: text, Level: level})
				continue
			}
			out.paragraph(text)
		case *docx.Table:
			out.paragraph(docxTableText(it))
		}
	}
	out.into(tree)
	return tree, nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(style string) int {
	m := docxHeadingRe.FindStringSubmatch(strings.TrimSpace(style))
	if m == nil {
		return 0
	}
	level, _ := strconv.Atoi(m[1])
	return level
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			docxRunText(&buf, c)
		case *docx.Hyperlink:
			docxRunText(&buf, &c.Run)
		}
	}
	return strings.TrimSpace(buf.String())
}

// docxRunText writes a run's text. Hyperlink runs written by go-docx keep
// their label in InstrText rather than a text child.
func docxRunText(buf *strings.Builder, run *docx.Run) {
	wrote := false
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
			wrote = true
		}
	}
	if !wrote && run.InstrText != "" && !strings.HasPrefix(strings.TrimSpace(run.InstrText), "HYPERLINK") {
		buf.WriteString(run.InstrText)
	}
}

// docxTableText flattens a table to one line per row, cells separated by
// " | ".
func docxTableText(tbl *docx.Table) string {
	var rows []string
	for _, row := range tbl.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if t := docxParagraphText(para); t != "" {
					parts = append(parts, t)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		if line := strings.TrimSpace(strings.Join(cells, " | ")); line != "" && strings.Trim(line, "| ") != "" {
			rows = append(rows, line)
		}
	}
	return strings.Join(rows, "\n")
}
