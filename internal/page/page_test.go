package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
	"git.home.luguber.info/inful/sitefilter/internal/markdown"
	"git.home.luguber.info/inful/sitefilter/internal/typography"
)

func newTestRenderer(t *testing.T, layout string) *Renderer {
	t.Helper()
	chain, err := filters.Default().Chain(typography.FilterName)
	require.NoError(t, err)
	return NewRenderer(layout, chain, nil, markdown.Options{})
}

func TestRenderPage_FiltersBodyAndTitle(t *testing.T) {
	src := "---\ntitle: Building a fat JAR\n---\nUpload to Maven Central with `mvn-deploy`.\n"

	p, err := newTestRenderer(t, "").RenderPage("docs/jar.md", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "Building a fat JAR", p.Title)
	assert.Equal(t, "<p>Upload to Maven&nbsp;Central with <code>mvn&#8209;deploy</code>.</p>\n", p.Content)
	assert.Contains(t, p.HTML, "<title>Building a fat&nbsp;JAR</title>")
	assert.Contains(t, p.HTML, `<meta name="generator" content="sitefilter `)
	assert.Contains(t, p.HTML, p.Content)
	assert.NotEmpty(t, p.Fingerprint)
}

func TestRenderPage_TitleFallsBackToFileName(t *testing.T) {
	p, err := newTestRenderer(t, "{{ .Title }}").RenderPage("guides/super-pom.md", []byte("text"))
	require.NoError(t, err)
	assert.Equal(t, "super-pom", p.HTML)
}

func TestRenderPage_LayoutSeesParams(t *testing.T) {
	layout := `{{ .Params.section }}|{{ .Content | add_non_breaking_spaces }}`
	r := NewRenderer(layout, nil, nil, markdown.Options{})

	p, err := r.RenderPage("a.md", []byte("---\nsection: Tools\n---\nThe Clojure CLI\n"))
	require.NoError(t, err)
	assert.Equal(t, "Tools|<p>The Clojure&nbsp;CLI</p>\n", p.HTML)
}

func TestRenderPage_FingerprintTracksContent(t *testing.T) {
	r := newTestRenderer(t, "")
	a, err := r.RenderPage("a.md", []byte("---\ntitle: A\n---\nJava 17\n"))
	require.NoError(t, err)
	again, err := r.RenderPage("a.md", []byte("---\ntitle: A\n---\nJava 17\n"))
	require.NoError(t, err)
	b, err := r.RenderPage("a.md", []byte("---\ntitle: A\n---\nJava 21\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, again.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
}

func TestRenderPage_Errors(t *testing.T) {
	r := newTestRenderer(t, "")

	_, err := r.RenderPage("broken.md", []byte("---\ntitle: x\nno closing"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))

	_, err = r.RenderPage("yaml.md", []byte("---\ntitle: [oops\n---\nbody"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))

	_, err = newTestRenderer(t, "{{ .Nope }}").RenderPage("a.md", []byte("body"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryTemplate))
	assert.True(t, strings.Contains(err.Error(), "a.md"))
}
