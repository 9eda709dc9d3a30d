// Package products knows the product slugs the portal serves docs for.
package products

import (
	"sort"
	"strings"
)

var names = map[string]string{
	"boundary":      "Boundary",
	"consul":        "Consul",
	"hcp":           "HashiCorp Cloud Platform",
	"nomad":         "Nomad",
	"packer":        "Packer",
	"sentinel":      "Sentinel",
	"terraform":     "Terraform",
	"vagrant":       "Vagrant",
	"vault":         "Vault",
	"vault-secrets": "HCP Vault Secrets",
	"waypoint":      "Waypoint",
}

// Sections that live at the site root rather than under a product.
var rootSections = map[string]bool{
	"onboarding":                 true,
	"well-architected-framework": true,
}

// Registry answers product questions. Which products are in beta is
// deployment configuration.
type Registry struct {
	beta map[string]bool
}

// NewRegistry returns a registry with the given beta product slugs.
func NewRegistry(beta []string) *Registry {
	r := &Registry{beta: make(map[string]bool, len(beta))}
	for _, slug := range beta {
		slug = strings.TrimSpace(strings.ToLower(slug))
		if slug != "" {
			r.beta[slug] = true
		}
	}
	return r
}

// IsProduct reports whether slug is a known product.
func (r *Registry) IsProduct(slug string) bool {
	_, ok := names[slug]
	return ok
}

// Name returns the display name for slug.
func (r *Registry) Name(slug string) (string, bool) {
	n, ok := names[slug]
	return n, ok
}

// IsBeta reports whether slug is a beta product.
func (r *Registry) IsBeta(slug string) bool {
	return r != nil && r.beta[slug]
}

// IsRootSection reports whether slug names a non-product section such as
// onboarding.
func IsRootSection(slug string) bool {
	return rootSections[slug]
}

// Slugs lists every known product slug, sorted.
func Slugs() []string {
	out := make([]string, 0, len(names))
	for s := range names {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
