package doctree

import (
	"strings"
	"testing"
)

func sampleTree() *DocTree {
	return &DocTree{
		Title: "Guide",
		Children: []*DocNode{
			{
				Title: "Overview",
				Level: 1,
				Text:  "Intro text here.",
				Children: []*DocNode{
					{Title: "Install", Level: 2, Text: "Run the installer."},
					{Title: "Install", Level: 2, TabDepth: 1, Text: "Inside a tab."},
					{Title: "Deep Dive", Level: 3},
				},
			},
			{Text: "trailing text"},
		},
	}
}

func TestHeadings_OrderAndSlugs(t *testing.T) {
	got := Headings(sampleTree())
	want := []Heading{
		{Title: "Overview", Slug: "overview", Level: 1},
		{Title: "Install", Slug: "install", Level: 2},
		{Title: "Install", Slug: "install-1", Level: 2, TabbedSectionDepth: 1},
		{Title: "Deep Dive", Slug: "deep-dive", Level: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d headings, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if got[1].URL() != "#install" {
		t.Errorf("expected url %q, got %q", "#install", got[1].URL())
	}
}

func TestFilterTOC(t *testing.T) {
	got := FilterTOC(Headings(sampleTree()))
	if len(got) != 2 {
		t.Fatalf("expected 2 toc headings, got %d: %+v", len(got), got)
	}
	if got[0].Slug != "overview" || got[1].Slug != "install" {
		t.Errorf("unexpected toc: %+v", got)
	}
}

func TestHeadings_ExplicitAnchor(t *testing.T) {
	tree := &DocTree{Children: []*DocNode{
		{Title: "Install Waypoint", Level: 1, Anchor: "install"},
		{Title: "Install", Level: 2},
	}}
	got := Headings(tree)
	if len(got) != 2 {
		t.Fatalf("expected 2 headings, got %+v", got)
	}
	if got[0].Slug != "install" {
		t.Errorf("expected explicit anchor, got %q", got[0].Slug)
	}
	if got[1].Slug != "install-1" {
		t.Errorf("expected deduplicated slug, got %q", got[1].Slug)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"  Waypoint vs. Other Software ", "waypoint-vs-other-software"},
		{"API_reference -- v2", "api-reference-v2"},
		{"Déploiement", "déploiement"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestReadingMinutes(t *testing.T) {
	if got := ReadingMinutes(&DocTree{}); got != 0 {
		t.Errorf("expected 0 minutes for empty tree, got %d", got)
	}
	if got := ReadingMinutes(sampleTree()); got != 1 {
		t.Errorf("expected 1 minute for short tree, got %d", got)
	}
	long := &DocTree{Children: []*DocNode{{Text: strings.Repeat("word ", 450)}}}
	if got := ReadingMinutes(long); got != 3 {
		t.Errorf("expected 3 minutes for 450 words, got %d", got)
	}
}

func TestText_DocumentOrder(t *testing.T) {
	got := Text(sampleTree())
	if !strings.HasPrefix(got, "Intro text here.\nRun the installer.") {
		t.Errorf("unexpected text order: %q", got)
	}
	if !strings.HasSuffix(got, "trailing text") {
		t.Errorf("expected trailing text last, got %q", got)
	}
}
