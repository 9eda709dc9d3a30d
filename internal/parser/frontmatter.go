package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter holds the fields docnav reads from page front matter.
type FrontMatter struct {
	PageTitle   string `yaml:"page_title"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// DisplayTitle prefers page_title over title.
func (f FrontMatter) DisplayTitle() string {
	if t := strings.TrimSpace(f.PageTitle); t != "" {
		return t
	}
	return strings.TrimSpace(f.Title)
}

// SplitFrontMatter separates a leading "---" YAML block from the body.
// Input without front matter is returned unchanged as the body.
func SplitFrontMatter(input string) (string, string) {
	input = strings.TrimPrefix(input, "\uFEFF")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

// ParseFrontMatter splits and decodes front matter.
func ParseFrontMatter(input string) (FrontMatter, string, error) {
	raw, body := SplitFrontMatter(input)
	var fm FrontMatter
	if strings.TrimSpace(raw) == "" {
		return fm, body, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return fm, body, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, body, nil
}
