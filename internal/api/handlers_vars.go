package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/docnav/internal/render"
	"github.com/dgallion1/docnav/internal/vartree"
)

type variableTreeRequest struct {
	Variables []vartree.Variable `json:"variables"`
	Lenient   bool               `json:"lenient"`
}

// variableView is a tree node with its description rendered to HTML.
type variableView struct {
	vartree.Variable
	DescriptionHTML string          `json:"descriptionHtml,omitempty"`
	Variables       []*variableView `json:"variables,omitempty"`
}

type keyWarning struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Error string `json:"error"`
}

func (s *Server) handleVariableTree(w http.ResponseWriter, r *http.Request) {
	var req variableTreeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var (
		roots    []*vartree.Node
		warnings []keyWarning
	)
	if req.Lenient {
		var rejected []*vartree.KeyError
		roots, rejected = vartree.BuildLenient(req.Variables)
		for _, ke := range rejected {
			warnings = append(warnings, keyWarning{Index: ke.Index, Key: ke.Key, Error: ke.Err.Error()})
		}
	} else {
		var err error
		roots, err = vartree.Build(req.Variables)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	views, err := renderVariables(roots)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := map[string]any{"variables": views}
	if req.Lenient {
		if warnings == nil {
			warnings = []keyWarning{}
		}
		resp["warnings"] = warnings
	}
	writeJSON(w, http.StatusOK, resp)
}

func renderVariables(nodes []*vartree.Node) ([]*variableView, error) {
	out := make([]*variableView, 0, len(nodes))
	var errs []error
	for _, n := range nodes {
		html, err := render.Description(n.Description)
		if err != nil {
			errs = append(errs, err)
		}
		children, err := renderVariables(n.Variables)
		if err != nil {
			errs = append(errs, err)
		}
		v := &variableView{Variable: n.Variable, DescriptionHTML: html}
		if len(children) > 0 {
			v.Variables = children
		}
		out = append(out, v)
	}
	return out, errors.Join(errs...)
}
