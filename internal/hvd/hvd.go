// Package hvd indexes validated design guides from a content tree laid out
// as <product>/<category>/<guide>/<pages>.
package hvd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/dgallion1/docnav/internal/products"
	"github.com/dgallion1/docnav/internal/render"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BasePath prefixes every guide href.
const BasePath = "/validated-designs"

const metadataFile = "index.yaml"

// ErrNotFound is returned for unknown guide or page slugs.
var ErrNotFound = errors.New("hvd: not found")

// Page is one content file of a guide.
type Page struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Href     string `json:"href"`
	FilePath string `json:"-"`
}

// Guide is a validated design and its ordered pages.
type Guide struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
	Href            string `json:"href"`
	Pages           []Page `json:"pages"`
}

// CategoryGroup collects the guides of one product category.
type CategoryGroup struct {
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	DescriptionHTML string  `json:"descriptionHtml,omitempty"`
	Product         string  `json:"product"`
	Guides          []Guide `json:"guides"`
}

// Metadata is the content of an index.yaml file.
type Metadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Index is a loaded content tree.
type Index struct {
	fsys   fs.FS
	groups []CategoryGroup
}

// pageExtensions are the guide page formats; other files in a guide
// directory are assets.
var pageExtensions = map[string]bool{".mdx": true, ".md": true}

// LoadDir indexes the content tree rooted at dir.
func LoadDir(ctx context.Context, dir string, reg *products.Registry, logger *zap.Logger) (*Index, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("hvd content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("hvd content dir %s is not a directory", dir)
	}
	return Load(ctx, os.DirFS(dir), reg, logger)
}

// Load indexes fsys. Category metadata lives at <product>/<category>/index.yaml
// and guide metadata at <product>/<category>/<guide>/index.yaml. Directories
// under unknown products are skipped.
func Load(ctx context.Context, fsys fs.FS, reg *products.Registry, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = products.NewRegistry(nil)
	}

	var categoryFiles, guideFiles []string
	contentFiles := make(map[string][]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		parts := strings.Split(p, "/")
		if d.IsDir() {
			if len(parts) == 1 && p != "." && !reg.IsProduct(parts[0]) {
				logger.Debug("skipping unknown product directory", zap.String("dir", p))
				return fs.SkipDir
			}
			return nil
		}
		switch {
		case len(parts) == 3 && parts[2] == metadataFile:
			categoryFiles = append(categoryFiles, p)
		case len(parts) == 4 && parts[3] == metadataFile:
			guideFiles = append(guideFiles, p)
		case len(parts) == 4 && pageExtensions[strings.ToLower(path.Ext(p))]:
			dir := path.Dir(p)
			contentFiles[dir] = append(contentFiles[dir], p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk hvd content: %w", err)
	}

	sort.Strings(categoryFiles)
	sort.Strings(guideFiles)

	idx := &Index{fsys: fsys}
	byCategory := make(map[string]int)

	for _, p := range categoryFiles {
		parts := strings.Split(p, "/")
		product, category := parts[0], parts[1]
		meta, err := loadMetadata(fsys, p)
		if err != nil {
			return nil, err
		}
		slug := product + "-" + category
		descHTML, err := render.Description(meta.Description)
		if err != nil {
			return nil, err
		}
		byCategory[slug] = len(idx.groups)
		idx.groups = append(idx.groups, CategoryGroup{
			Slug:            slug,
			Title:           meta.Title,
			Description:     meta.Description,
			DescriptionHTML: descHTML,
			Product:         product,
			Guides:          []Guide{},
		})
	}

	for _, p := range guideFiles {
		parts := strings.Split(p, "/")
		product, category, guideDir := parts[0], parts[1], parts[2]
		categorySlug := product + "-" + category
		gi, ok := byCategory[categorySlug]
		if !ok {
			return nil, fmt.Errorf("hvd guide %s: missing category metadata %s", p, path.Join(product, category, metadataFile))
		}
		meta, err := loadMetadata(fsys, p)
		if err != nil {
			return nil, err
		}
		descHTML, err := render.Description(meta.Description)
		if err != nil {
			return nil, err
		}

		guideSlug := categorySlug + "-" + guideDir
		href := BasePath + "/" + guideSlug

		files := contentFiles[path.Dir(p)]
		sort.Strings(files)
		pages := make([]Page, 0, len(files))
		for _, f := range files {
			slug := PageSlug(path.Base(f))
			pages = append(pages, Page{
				Slug:     slug,
				Title:    PageTitle(slug),
				Href:     href + "/" + slug,
				FilePath: f,
			})
		}

		idx.groups[gi].Guides = append(idx.groups[gi].Guides, Guide{
			Slug:            guideSlug,
			Title:           meta.Title,
			Description:     meta.Description,
			DescriptionHTML: descHTML,
			Href:            href,
			Pages:           pages,
		})
	}

	logger.Info("hvd content indexed",
		zap.Int("categories", len(idx.groups)),
		zap.Int("guides", len(guideFiles)),
	)
	return idx, nil
}

func loadMetadata(fsys fs.FS, p string) (Metadata, error) {
	var meta Metadata
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return meta, fmt.Errorf("read hvd metadata %s: %w", p, err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse hvd metadata %s: %w", p, err)
	}
	return meta, nil
}

// PageSlug derives a page slug from its file name: the stem after the first
// dash, so "01-overview.mdx" becomes "overview".
func PageSlug(filename string) string {
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	if _, after, ok := strings.Cut(stem, "-"); ok {
		return after
	}
	return stem
}

// PageTitle turns a page slug into a display title by replacing dashes
// with spaces. Casing is left to the page.
func PageTitle(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// CategoryGroups returns the indexed groups in slug order.
func (idx *Index) CategoryGroups() []CategoryGroup {
	if idx == nil {
		return nil
	}
	return idx.groups
}

// Paths lists every routable slug path: [guide] and [guide, page].
func (idx *Index) Paths() [][]string {
	var out [][]string
	for _, g := range idx.CategoryGroups() {
		for _, guide := range g.Guides {
			out = append(out, []string{guide.Slug})
			for _, p := range guide.Pages {
				out = append(out, []string{guide.Slug, p.Slug})
			}
		}
	}
	return out
}

// Guide finds a guide and its category group by slug.
func (idx *Index) Guide(slug string) (*Guide, *CategoryGroup, error) {
	for gi := range idx.CategoryGroups() {
		group := &idx.groups[gi]
		for i := range group.Guides {
			if group.Guides[i].Slug == slug {
				return &group.Guides[i], group, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: guide %q", ErrNotFound, slug)
}
