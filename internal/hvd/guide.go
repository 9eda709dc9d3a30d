package hvd

import (
	"fmt"

	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/dgallion1/docnav/internal/parser"
)

// GuideProps is everything needed to show one page of a guide.
type GuideProps struct {
	Title            string            `json:"title"`
	GuideSlug        string            `json:"guideSlug"`
	CategorySlug     string            `json:"categorySlug"`
	BasePath         string            `json:"basePath"`
	Pages            []Page            `json:"pages"`
	CurrentPageIndex int               `json:"currentPageIndex"`
	Headings         []doctree.Heading `json:"headings"`
	ReadingMinutes   int               `json:"readingMinutes"`
}

// GuideProps loads the page pageSlug of guide guideSlug. An empty pageSlug
// selects the first page.
func (idx *Index) GuideProps(guideSlug, pageSlug string) (*GuideProps, error) {
	guide, group, err := idx.Guide(guideSlug)
	if err != nil {
		return nil, err
	}
	if len(guide.Pages) == 0 {
		return nil, fmt.Errorf("%w: guide %q has no pages", ErrNotFound, guideSlug)
	}

	current := -1
	for i, p := range guide.Pages {
		if p.Slug == pageSlug || (pageSlug == "" && i == 0) {
			current = i
			break
		}
	}
	if current < 0 {
		return nil, fmt.Errorf("%w: page %q in guide %q", ErrNotFound, pageSlug, guideSlug)
	}
	page := guide.Pages[current]

	tree, err := idx.parsePage(page)
	if err != nil {
		return nil, err
	}

	return &GuideProps{
		Title:            page.Title,
		GuideSlug:        guide.Slug,
		CategorySlug:     group.Slug,
		BasePath:         BasePath,
		Pages:            guide.Pages,
		CurrentPageIndex: current,
		Headings:         doctree.FilterTOC(doctree.Headings(tree)),
		ReadingMinutes:   doctree.ReadingMinutes(tree),
	}, nil
}

func (idx *Index) parsePage(page Page) (*doctree.DocTree, error) {
	p, err := parser.ForFile(page.FilePath)
	if err != nil {
		return nil, err
	}
	f, err := idx.fsys.Open(page.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open hvd page %s: %w", page.FilePath, err)
	}
	defer f.Close()

	tree, err := p.Parse(f, page.FilePath)
	if err != nil {
		return nil, fmt.Errorf("parse hvd page %s: %w", page.FilePath, err)
	}
	return tree, nil
}
