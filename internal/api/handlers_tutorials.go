package api

import (
	"fmt"
	"net/http"

	"github.com/dgallion1/docnav/internal/render"
)

type rewriteRequest struct {
	Links []string `json:"links"`
}

func (s *Server) handleRewriteLinks(w http.ResponseWriter, r *http.Request) {
	if s.rewriter == nil {
		jsonError(w, "link rewriting unavailable", http.StatusServiceUnavailable)
		return
	}
	var req rewriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]string, len(req.Links))
	for i, link := range req.Links {
		out[i] = s.rewriter.Rewrite(link)
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": out})
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

func (s *Server) handleRenderTutorial(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Markdown == "" {
		writeError(w, r, fmt.Errorf("%w: markdown is required", errBadRequest))
		return
	}
	var rw render.LinkRewriter
	if s.rewriter != nil {
		rw = s.rewriter
	}
	html, err := render.Tutorial(req.Markdown, rw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}
