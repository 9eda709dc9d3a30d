package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixRewriter struct {
	seen []string
}

func (p *prefixRewriter) Rewrite(link string) string {
	p.seen = append(p.seen, link)
	return "/rewritten" + link
}

func TestDescription(t *testing.T) {
	html, err := Description("The `region` to deploy **into**.")
	require.NoError(t, err)
	assert.Equal(t, "<p>The <code>region</code> to deploy <strong>into</strong>.</p>", html)

	html, err = Description("   ")
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestDescription_Sanitises(t *testing.T) {
	html, err := Description(`[click](javascript:alert(1)) <script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "javascript:")
}

func TestTutorial_RewritesLinks(t *testing.T) {
	rw := &prefixRewriter{}
	md := "See [the collection](/collections/vault/getting-started), [below](#setup) and [mail](mailto:a@b.c).\n"
	html, err := Tutorial(md, rw)
	require.NoError(t, err)

	assert.Equal(t, []string{"/collections/vault/getting-started"}, rw.seen)
	assert.Contains(t, html, `href="/rewritten/collections/vault/getting-started"`)
	assert.Contains(t, html, `href="#setup"`)
	assert.True(t, strings.HasPrefix(html, "<p>"))
}

func TestTutorial_NilRewriter(t *testing.T) {
	html, err := Tutorial("[x](/collections/a/b)", nil)
	require.NoError(t, err)
	assert.Contains(t, html, `href="/collections/a/b"`)
}
