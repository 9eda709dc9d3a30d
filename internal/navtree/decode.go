package navtree

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawNode is the nav-data wire shape shared by the content API and local
// nav files. "children" is accepted as an alias for "routes".
type rawNode struct {
	Title    string    `json:"title" yaml:"title"`
	Path     *string   `json:"path" yaml:"path"`
	Href     string    `json:"href" yaml:"href"`
	Divider  bool      `json:"divider" yaml:"divider"`
	Routes   []rawNode `json:"routes" yaml:"routes"`
	Children []rawNode `json:"children" yaml:"children"`
}

// DecodeJSON parses a JSON nav-data array.
func DecodeJSON(data []byte) ([]NavNode, error) {
	var raw []rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode nav json: %w", err)
	}
	return convert(raw, "")
}

// DecodeYAML parses a YAML nav-data sequence.
func DecodeYAML(data []byte) ([]NavNode, error) {
	var raw []rawNode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode nav yaml: %w", err)
	}
	return convert(raw, "")
}

// Decode picks the decoder from the file name extension. Anything that is
// not .yaml/.yml is treated as JSON.
func Decode(data []byte, filename string) ([]NavNode, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

func convert(raw []rawNode, parent string) ([]NavNode, error) {
	out := make([]NavNode, 0, len(raw))
	for i, r := range raw {
		routes := r.Routes
		if routes == nil {
			routes = r.Children
		}

		switch {
		case r.Divider:
			out = append(out, &DividerNode{})
		case routes != nil:
			children, err := convert(routes, r.Title)
			if err != nil {
				return nil, err
			}
			// A node carrying both a path and children is a category with
			// its own landing page.
			if r.Path != nil {
				overview := &PageNode{Title: "Overview", Path: *r.Path}
				children = append([]NavNode{overview}, children...)
			}
			out = append(out, &CategoryNode{Title: r.Title, Routes: children})
		case r.Href != "":
			out = append(out, &LinkNode{Title: r.Title, Href: r.Href})
		case r.Path != nil:
			out = append(out, &PageNode{Title: r.Title, Path: *r.Path})
		default:
			return nil, fmt.Errorf("nav entry %d (%q) under %q has no path, routes or href", i, r.Title, parent)
		}
	}
	return out, nil
}
