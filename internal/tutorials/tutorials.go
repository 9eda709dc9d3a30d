// Package tutorials rewrites links inside tutorial content so they point at
// their home on the developer portal.
package tutorials

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dgallion1/docnav/internal/products"
	"go.uber.org/zap"
)

// DefaultLearnBaseURL is where tutorials for non-beta products still live.
const DefaultLearnBaseURL = "https://learn.hashicorp.com"

// ErrInvalidLink is returned when a link does not have the shape its
// handler expects.
var ErrInvalidLink = errors.New("tutorials: invalid link")

// Rewriter maps learn and docs links onto portal paths.
type Rewriter struct {
	learnBase *url.URL
	products  *products.Registry
	logger    *zap.Logger

	isLearnLink func(*url.URL) bool
	isDocsLink  func(*url.URL) bool
}

// NewRewriter builds a Rewriter. An empty learnBaseURL uses
// DefaultLearnBaseURL.
func NewRewriter(learnBaseURL string, reg *products.Registry, logger *zap.Logger) (*Rewriter, error) {
	if learnBaseURL == "" {
		learnBaseURL = DefaultLearnBaseURL
	}
	base, err := url.Parse(strings.TrimRight(learnBaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid learn base url %q", learnBaseURL)
	}
	if reg == nil {
		reg = products.NewRegistry(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Rewriter{learnBase: base, products: reg, logger: logger}
	r.isLearnLink = r.learnLink
	r.isDocsLink = r.docsLink
	return r, nil
}

// Rewrite returns the portal form of link. Links that are not exactly one of
// a learn link or an external docs link come back unchanged, as do links a
// handler rejects.
func (r *Rewriter) Rewrite(link string) string {
	u, err := r.resolve(link)
	if err != nil {
		r.logger.Error("unparseable tutorial link", zap.String("link", link), zap.Error(err))
		return link
	}

	isDocs := r.isDocsLink(u)
	isLearn := r.isLearnLink(u)
	if isDocs == isLearn {
		r.logger.Error("tutorial link is not exactly one of learn or docs",
			zap.String("link", link),
			zap.Bool("learn", isLearn),
			zap.Bool("docs", isDocs),
		)
		return link
	}

	var out string
	if isDocs {
		out, err = r.RewriteDocsLink(u)
	} else {
		out, err = r.HandleLearnLink(u)
	}
	if err != nil {
		r.logger.Warn("tutorial link left unchanged", zap.String("link", link), zap.Error(err))
		return link
	}
	return out
}

// HandleLearnLink dispatches on the first path segment of a learn link.
func (r *Rewriter) HandleLearnLink(u *url.URL) (string, error) {
	switch firstSegment(u.Path) {
	case "collections":
		return r.HandleCollectionLink(u)
	case "tutorials":
		return r.HandleTutorialLink(u)
	}
	return "", fmt.Errorf("%w: %s is not a learn link", ErrInvalidLink, u.Path)
}

// HandleCollectionLink rewrites /collections/<product>/<slug>.
func (r *Rewriter) HandleCollectionLink(u *url.URL) (string, error) {
	parts, ok := exactSegments(u.Path, "collections", 3)
	if !ok {
		return "", fmt.Errorf("%w: %q is not /collections/<product>/<slug>", ErrInvalidLink, u.Path)
	}
	product, slug := parts[1], parts[2]

	var path string
	switch {
	case r.products.IsBeta(product):
		path = "/" + product + "/tutorials/" + slug
	case products.IsRootSection(product):
		path = "/" + product + "/" + slug
	default:
		return r.learnURL(u.EscapedPath(), u.RawQuery, u.EscapedFragment()), nil
	}
	return withSuffix(path, u.RawQuery, u.EscapedFragment()), nil
}

// HandleTutorialLink rewrites /tutorials/<product>/<slug>. The owning
// collection comes from the "in" query parameter, "<product>/<collection>".
func (r *Rewriter) HandleTutorialLink(u *url.URL) (string, error) {
	parts, ok := exactSegments(u.Path, "tutorials", 3)
	if !ok {
		return "", fmt.Errorf("%w: %q is not /tutorials/<product>/<slug>", ErrInvalidLink, u.Path)
	}
	slug := parts[2]

	query := u.Query()
	in := strings.Split(strings.Trim(query.Get("in"), "/"), "/")
	if len(in) == 2 && in[0] != "" && in[1] != "" {
		collProduct, collection := in[0], in[1]
		query.Del("in")
		switch {
		case r.products.IsBeta(collProduct):
			return withSuffix("/"+collProduct+"/tutorials/"+collection+"/"+slug, query.Encode(), u.EscapedFragment()), nil
		case products.IsRootSection(collProduct):
			return withSuffix("/"+collProduct+"/"+collection+"/"+slug, query.Encode(), u.EscapedFragment()), nil
		}
	}
	return r.learnURL(u.EscapedPath(), u.RawQuery, u.EscapedFragment()), nil
}

// RewriteDocsLink turns https://www.<product>.io/docs/... and
// developer portal links into site-relative paths.
func (r *Rewriter) RewriteDocsLink(u *url.URL) (string, error) {
	host := strings.ToLower(u.Hostname())
	if host == "developer.hashicorp.com" {
		return withSuffix(u.EscapedPath(), u.RawQuery, u.EscapedFragment()), nil
	}
	product, ok := productFromHost(host)
	if !ok || !r.products.IsProduct(product) {
		return "", fmt.Errorf("%w: %q is not a docs host", ErrInvalidLink, host)
	}
	return withSuffix("/"+product+u.EscapedPath(), u.RawQuery, u.EscapedFragment()), nil
}

// resolve parses link relative to the learn site, which is where tutorial
// content was authored.
func (r *Rewriter) resolve(link string) (*url.URL, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, err
	}
	return r.learnBase.ResolveReference(u), nil
}

func (r *Rewriter) learnLink(u *url.URL) bool {
	if !strings.EqualFold(u.Hostname(), r.learnBase.Hostname()) {
		return false
	}
	switch firstSegment(u.Path) {
	case "collections", "tutorials":
		return true
	}
	return false
}

func (r *Rewriter) docsLink(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if host == "developer.hashicorp.com" {
		return true
	}
	product, ok := productFromHost(host)
	if !ok || !r.products.IsProduct(product) {
		return false
	}
	return u.Path == "/docs" || strings.HasPrefix(u.Path, "/docs/")
}

func (r *Rewriter) learnURL(path, rawQuery, fragment string) string {
	return withSuffix(r.learnBase.Scheme+"://"+r.learnBase.Host+path, rawQuery, fragment)
}

func productFromHost(host string) (string, bool) {
	host = strings.TrimPrefix(host, "www.")
	product, ok := strings.CutSuffix(host, ".io")
	if !ok || product == "" || strings.Contains(product, ".") {
		return "", false
	}
	return product, true
}

func firstSegment(path string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return first
}

// exactSegments splits an absolute path and checks it has exactly n
// non-empty segments starting with head.
func exactSegments(path, head string, n int) ([]string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	parts := strings.Split(path[1:], "/")
	if len(parts) != n || parts[0] != head {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

func withSuffix(path, rawQuery, fragment string) string {
	if rawQuery != "" {
		path += "?" + rawQuery
	}
	if fragment != "" {
		path += "#" + fragment
	}
	return path
}
