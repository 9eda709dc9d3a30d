package navtree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a path segment has no matching nav node.
var ErrNotFound = errors.New("navtree: not found")

// BreadcrumbItem is one entry of a breadcrumb trail. URL is empty for
// index-less categories, which render as plain text.
type BreadcrumbItem struct {
	Title         string `json:"title"`
	URL           string `json:"url,omitempty"`
	IsCurrentPage bool   `json:"isCurrentPage,omitempty"`
}

// ResolveBreadcrumbs walks nav following pathParts and returns one item
// per segment. The last item is marked as the current page.
func ResolveBreadcrumbs(basePath string, pathParts []string, nav []NavNode) ([]BreadcrumbItem, error) {
	pathParts = trimIndex(pathParts)
	crumbs := make([]BreadcrumbItem, 0, len(pathParts))
	if len(pathParts) == 0 {
		return crumbs, nil
	}

	level := nav
	for depth, part := range pathParts {
		soFar := strings.Join(pathParts[:depth+1], "/")
		node := matchSegment(level, depth, part)

		switch n := node.(type) {
		case *PageNode:
			crumbs = append(crumbs, BreadcrumbItem{
				Title: n.Title,
				URL:   pageURL(basePath, n.Path),
			})
			level = nil
		case *CategoryNode:
			item := BreadcrumbItem{Title: n.Title}
			// An overview page stands for its category, so the trail shows
			// the category title with the overview's URL.
			if ov := overviewPage(n, soFar); ov != nil {
				item.URL = pageURL(basePath, ov.Path)
			}
			crumbs = append(crumbs, item)
			level = n.Routes
		default:
			return nil, fmt.Errorf("%w: %q", ErrNotFound, soFar)
		}
	}

	crumbs[len(crumbs)-1].IsCurrentPage = true
	return crumbs, nil
}

// trimIndex drops a trailing "index" part, which names the overview page of
// the enclosing category.
func trimIndex(parts []string) []string {
	if n := len(parts); n > 0 && parts[n-1] == "index" {
		return parts[:n-1]
	}
	return parts
}

func matchSegment(level []NavNode, depth int, part string) NavNode {
	for _, node := range level {
		if seg, ok := segmentAt(node, depth); ok && seg == part {
			return node
		}
	}
	return nil
}

func pageURL(basePath, p string) string {
	base := strings.Trim(basePath, "/")
	p = NormalizePath(p)
	switch {
	case base == "":
		return "/" + p
	case p == "":
		return "/" + base
	}
	return "/" + base + "/" + p
}

// DocsBreadcrumbsInput describes a docs page request.
type DocsBreadcrumbsInput struct {
	BasePath    string // docs section slug, e.g. "docs"
	BaseName    string // docs section title, e.g. "Docs"
	ProductPath string // product slug, e.g. "waypoint"
	ProductName string
	PathParts   []string
	NavData     []NavNode
}

// DocsBreadcrumbs prefixes the path trail with the Developer root, the
// product and the docs section root.
func DocsBreadcrumbs(in DocsBreadcrumbsInput) ([]BreadcrumbItem, error) {
	product := strings.Trim(in.ProductPath, "/")
	section := strings.Trim(in.BasePath, "/")

	crumbs := []BreadcrumbItem{
		{Title: "Developer", URL: "/"},
		{Title: in.ProductName, URL: "/" + product},
		{Title: in.BaseName, URL: "/" + product + "/" + section},
	}
	if len(trimIndex(in.PathParts)) == 0 {
		crumbs[len(crumbs)-1].IsCurrentPage = true
		return crumbs, nil
	}

	trail, err := ResolveBreadcrumbs(product+"/"+section, in.PathParts, in.NavData)
	if err != nil {
		return nil, err
	}
	return append(crumbs, trail...), nil
}
