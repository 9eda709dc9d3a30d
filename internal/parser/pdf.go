package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles printable guide exports. The document outline becomes
// the heading tree and each page becomes an untitled node carrying its
// page number. When the Go reader fails, pdftotext is tried if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	headings, pages, err := readPDF(data)
	if err != nil {
		if !p.FallbackPdftotext {
			return nil, fmt.Errorf("read pdf: %w", err)
		}
		text, ferr := pdftotext(data)
		if ferr != nil {
			return nil, fmt.Errorf("read pdf: %w", errors.Join(err, ferr))
		}
		pages = strings.Split(text, "\f")
	}

	tree := &doctree.DocTree{Title: stem(filename)}
	tree.Children = append(tree.Children, headings...)
	for i, page := range pages {
		if page = strings.TrimSpace(page); page != "" {
			tree.Children = append(tree.Children, &doctree.DocNode{Text: page, Page: i + 1})
		}
	}
	return tree, nil
}

// readPDF returns the outline headings and the plain text of every page.
// The reader panics on some malformed files, so panics become errors.
func readPDF(data []byte) (headings []*doctree.DocNode, pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			headings, pages = nil, nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	rd, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	headings = outlineHeadings(rd.Outline().Child, 1)
	for i := 1; i <= rd.NumPage(); i++ {
		page := rd.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		pages = append(pages, text)
	}
	return headings, pages, nil
}

// outlineHeadings maps bookmark nesting to heading levels. Untitled
// bookmarks are dropped and their children promoted.
func outlineHeadings(entries []pdflib.Outline, level int) []*doctree.DocNode {
	var out []*doctree.DocNode
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			out = append(out, outlineHeadings(e.Child, level)...)
			continue
		}
		out = append(out, &doctree.DocNode{
			Title:    title,
			Level:    min(level, 6),
			Children: outlineHeadings(e.Child, level+1),
		})
	}
	return out
}

func pdftotext(data []byte) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
