package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docnav/internal/vartree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureNav = "../../internal/navtree/testdata/waypoint-nav-data.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestBreadcrumbs_DocsTrail(t *testing.T) {
	out, err := run(t, "breadcrumbs", "--nav", fixtureNav, "--product", "waypoint", "intro/vs", "heroku")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"title":"Developer","url":"/"},
		{"title":"Waypoint","url":"/waypoint"},
		{"title":"Docs","url":"/waypoint/docs"},
		{"title":"Introduction","url":"/waypoint/docs/intro"},
		{"title":"Waypoint vs. Other Software","url":"/waypoint/docs/intro/vs"},
		{"title":"Heroku","url":"/waypoint/docs/intro/vs/heroku","isCurrentPage":true}
	]`, out)
}

func TestBreadcrumbs_YAMLNav(t *testing.T) {
	dir := t.TempDir()
	nav := writeFile(t, dir, "nav.yaml", "- title: Getting Started\n  path: getting-started\n")

	out, err := run(t, "breadcrumbs", "--nav", nav, "--base", "waypoint/docs", "getting-started")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"Getting Started","url":"/waypoint/docs/getting-started","isCurrentPage":true}]`, out)
}

func TestBreadcrumbs_NotFound(t *testing.T) {
	_, err := run(t, "breadcrumbs", "--nav", fixtureNav, "intro", "nope")
	assert.Error(t, err)
}

func TestBreadcrumbs_RequiresNav(t *testing.T) {
	_, err := run(t, "breadcrumbs", "intro")
	assert.Error(t, err)
}

func TestVartree(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "vars.json", `[
		{"key":"vpc.cidr","type":"string"},
		{"key":"region","type":"string","required":true}
	]`)

	out, err := run(t, "vartree", file)
	require.NoError(t, err)

	var roots []*vartree.Node
	require.NoError(t, json.Unmarshal([]byte(out), &roots))
	require.Len(t, roots, 2)
	assert.Equal(t, "region", roots[0].Key)
	assert.Equal(t, "vpc", roots[1].Key)
	assert.Equal(t, vartree.CategoryType, roots[1].Type)
	require.Len(t, roots[1].Variables, 1)
	assert.Equal(t, "vpc.cidr", roots[1].Variables[0].Key)
}

func TestVartree_Lenient(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "vars.yaml", "- key: name\n  type: string\n- key: name\n  type: number\n- key: bad..key\n  type: string\n")

	_, err := run(t, "vartree", file)
	require.Error(t, err)

	out, err := run(t, "vartree", "--lenient", file)
	require.NoError(t, err)

	var got lenientTree
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Variables, 1)
	assert.Equal(t, "string", got.Variables[0].Type)
	assert.Len(t, got.Warnings, 2)
}

func TestTOC(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "page.mdx", "---\npage_title: Deploy\n---\n\n# Deploy\n\nIntro.\n\n## Build\n\nSteps.\n\n### Detail\n\nMore.\n")

	out, err := run(t, "toc", file)
	require.NoError(t, err)

	var got tocOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Deploy", got.Title)
	assert.Equal(t, 1, got.ReadingMinutes)
	slugs := make([]string, 0, len(got.Headings))
	for _, h := range got.Headings {
		slugs = append(slugs, h.Slug)
	}
	assert.Equal(t, []string{"deploy", "build"}, slugs)

	out, err = run(t, "toc", "--all", file)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Headings, 3)
}

func TestTOC_Unsupported(t *testing.T) {
	_, err := run(t, "toc", "data.csv")
	assert.Error(t, err)
}

func TestHVDPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "terraform/operation-guides/index.yaml", "title: Operation Guides\n")
	writeFile(t, dir, "terraform/operation-guides/adoption/index.yaml", "title: Adoption\n")
	writeFile(t, dir, "terraform/operation-guides/adoption/01-overview.md", "# Overview\n")

	out, err := run(t, "hvd", "paths", dir)
	require.NoError(t, err)

	var paths [][]string
	require.NoError(t, json.Unmarshal([]byte(out), &paths))
	assert.Contains(t, paths, []string{"terraform-operation-guides-adoption", "overview"})

	out, err = run(t, "hvd", "index", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"terraform-operation-guides"`)
}

func TestRewrite(t *testing.T) {
	out, err := run(t, "rewrite", "/collections/vault/getting-started", "/tutorials/vault/tokens?in=vault/auth-methods")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"from":"/collections/vault/getting-started","to":"/vault/tutorials/getting-started"},
		{"from":"/tutorials/vault/tokens?in=vault/auth-methods","to":"/vault/tutorials/auth-methods/tokens"}
	]`, out)
}
