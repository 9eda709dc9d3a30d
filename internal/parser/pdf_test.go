package parser

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/dgallion1/docnav/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// guidePDF assembles a one-page PDF with a two-level bookmark outline.
func guidePDF() []byte {
	content := "BT /F1 12 Tf 72 720 Td (Run the installer.) Tj ET"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R /Outlines 5 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 8 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Outlines /First 6 0 R /Last 6 0 R /Count 2 >>",
		"<< /Title (Install) /Parent 5 0 R /First 7 0 R /Last 7 0 R /Count 1 >>",
		"<< /Title (Verify) /Parent 6 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPDFParser_OutlineAndPages(t *testing.T) {
	p := &PDFParser{}
	tree, err := p.Parse(bytes.NewReader(guidePDF()), "install.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "install" {
		t.Errorf("expected title %q, got %q", "install", tree.Title)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected outline heading and one page, got %+v", tree.Children)
	}

	install := tree.Children[0]
	if install.Title != "Install" || install.Level != 1 {
		t.Errorf("unexpected heading: %+v", install)
	}
	if len(install.Children) != 1 || install.Children[0].Title != "Verify" || install.Children[0].Level != 2 {
		t.Errorf("expected nested bookmark, got %+v", install.Children)
	}

	page := tree.Children[1]
	if page.Title != "" || page.Page != 1 || page.Text != "Run the installer." {
		t.Errorf("unexpected page node: %+v", page)
	}

	headings := doctree.Headings(tree)
	if len(headings) != 2 || headings[1].Slug != "verify" {
		t.Errorf("unexpected headings: %+v", headings)
	}
}

func TestPDFParser_Malformed(t *testing.T) {
	p := &PDFParser{}
	inputs := map[string][]byte{
		"no header":   []byte("plain text, not a pdf"),
		"truncated":   guidePDF()[:200],
		"bad xref":    bytes.Replace(guidePDF(), []byte("xref\n"), []byte("xref\nbogus\n"), 1),
		"header only": []byte("%PDF-1.4\n"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Parse(bytes.NewReader(data), "bad.pdf"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOutlineHeadings_UntitledPromotesChildren(t *testing.T) {
	got := outlineHeadings([]pdflib.Outline{
		{Child: []pdflib.Outline{{Title: "Install"}}},
		{Title: " Configure ", Child: []pdflib.Outline{{Title: "Runners"}}},
	}, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 headings, got %+v", got)
	}
	if got[0].Title != "Install" || got[0].Level != 1 {
		t.Errorf("expected promoted heading, got %+v", got[0])
	}
	if got[1].Title != "Configure" || len(got[1].Children) != 1 || got[1].Children[0].Level != 2 {
		t.Errorf("unexpected nested heading: %+v", got[1])
	}
}
