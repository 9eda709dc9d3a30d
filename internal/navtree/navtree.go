// Package navtree models docs navigation trees and resolves breadcrumb
// trails against them.
package navtree

import "strings"

// NavNode is one entry of a navigation tree. The concrete types are
// *PageNode, *CategoryNode, *LinkNode and *DividerNode.
type NavNode interface {
	NodeTitle() string
	isNavNode()
}

// PageNode is an addressable docs page. Path is relative to the docs
// section root, e.g. "intro/vs/heroku".
type PageNode struct {
	Title string
	Path  string
}

// CategoryNode groups routes. It has no page of its own unless one of its
// direct routes is an overview page whose path equals the category path.
type CategoryNode struct {
	Title  string
	Routes []NavNode
}

// LinkNode points outside the docs section.
type LinkNode struct {
	Title string
	Href  string
}

// DividerNode is a visual separator in the sidebar.
type DividerNode struct{}

func (n *PageNode) NodeTitle() string     { return n.Title }
func (n *CategoryNode) NodeTitle() string { return n.Title }
func (n *LinkNode) NodeTitle() string     { return n.Title }
func (n *DividerNode) NodeTitle() string  { return "" }

func (*PageNode) isNavNode()     {}
func (*CategoryNode) isNavNode() {}
func (*LinkNode) isNavNode()     {}
func (*DividerNode) isNavNode()  {}

// NormalizePath trims slashes and drops a trailing "index" segment, so
// "intro/index" and "/intro/" both become "intro".
func NormalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "index" {
		return ""
	}
	p = strings.TrimSuffix(p, "/index")
	return p
}

func splitPath(p string) []string {
	p = NormalizePath(p)
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// firstPagePath returns the normalised path of the first addressable page
// below the category, depth first.
func firstPagePath(c *CategoryNode) (string, bool) {
	for _, r := range c.Routes {
		switch n := r.(type) {
		case *PageNode:
			if p := NormalizePath(n.Path); p != "" {
				return p, true
			}
		case *CategoryNode:
			if p, ok := firstPagePath(n); ok {
				return p, true
			}
		}
	}
	return "", false
}

// segmentAt returns the slug a node occupies at the given depth.
func segmentAt(node NavNode, depth int) (string, bool) {
	var p string
	switch n := node.(type) {
	case *PageNode:
		parts := splitPath(n.Path)
		if len(parts) != depth+1 {
			return "", false
		}
		return parts[depth], true
	case *CategoryNode:
		var ok bool
		if p, ok = firstPagePath(n); !ok {
			return "", false
		}
	default:
		return "", false
	}
	parts := strings.Split(p, "/")
	if len(parts) <= depth {
		return "", false
	}
	return parts[depth], true
}

// overviewPage finds the route of c whose path is the category's own path.
func overviewPage(c *CategoryNode, categoryPath string) *PageNode {
	for _, r := range c.Routes {
		if p, ok := r.(*PageNode); ok && NormalizePath(p.Path) == categoryPath {
			return p
		}
	}
	return nil
}
