package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var sectionNames = map[string]string{
	"docs":     "Docs",
	"api-docs": "API",
	"commands": "CLI",
	"plugins":  "Plugins",
}

var titleCaser = cases.Title(language.English)

func sectionTitle(section string) string {
	if n, ok := sectionNames[section]; ok {
		return n
	}
	return titleCaser.String(strings.ReplaceAll(section, "-", " "))
}

func (s *Server) handleDocsBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")
	section := chi.URLParam(r, "section")

	nav, ok := s.catalog.Nav(product, section)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: no nav data for %s/%s", navtree.ErrNotFound, product, section))
		return
	}
	productName, ok := s.registry.Name(product)
	if !ok {
		productName = product
	}

	crumbs, err := navtree.DocsBreadcrumbs(navtree.DocsBreadcrumbsInput{
		BasePath:    section,
		BaseName:    sectionTitle(section),
		ProductPath: product,
		ProductName: productName,
		PathParts:   splitWildcard(chi.URLParam(r, "*")),
		NavData:     nav,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"breadcrumbs": crumbs})
}

type resolveRequest struct {
	BasePath  string          `json:"basePath"`
	PathParts []string        `json:"pathParts"`
	NavData   json.RawMessage `json:"navData"`
}

func (s *Server) handleResolveBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.NavData) == 0 {
		writeError(w, r, fmt.Errorf("%w: navData is required", errBadRequest))
		return
	}
	nav, err := navtree.DecodeJSON(req.NavData)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	crumbs, err := navtree.ResolveBreadcrumbs(req.BasePath, req.PathParts, nav)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"breadcrumbs": crumbs})
}

func splitWildcard(p string) []string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}
