package api

import (
	"fmt"
	"net/http"

	"github.com/dgallion1/docnav/internal/hvd"
	"github.com/go-chi/chi/v5"
)

const hvdLandingTitle = "HashiCorp Validated Designs"

func (s *Server) hvdIndex(w http.ResponseWriter, r *http.Request) (*hvd.Index, bool) {
	idx := s.catalog.HVD()
	if idx == nil {
		writeError(w, r, fmt.Errorf("%w: validated designs are not indexed", hvd.ErrNotFound))
		return nil, false
	}
	return idx, true
}

func (s *Server) handleHVDLanding(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.hvdIndex(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"title":          hvdLandingTitle,
		"categoryGroups": idx.CategoryGroups(),
	})
}

func (s *Server) handleHVDPaths(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.hvdIndex(w, r)
	if !ok {
		return
	}
	paths := idx.Paths()
	if paths == nil {
		paths = [][]string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"paths": paths})
}

func (s *Server) handleHVDGuide(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.hvdIndex(w, r)
	if !ok {
		return
	}
	props, err := idx.GuideProps(chi.URLParam(r, "guide"), chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}
