// Package page renders a markdown source with frontmatter into a complete
// HTML page, running the configured filter chain over the rendered body.
package page

import (
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
	"git.home.luguber.info/inful/sitefilter/internal/frontmatter"
	"git.home.luguber.info/inful/sitefilter/internal/markdown"
	"git.home.luguber.info/inful/sitefilter/internal/templates"
)

// DefaultLayout wraps the rendered content in a minimal HTML5 document.
const DefaultLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="{{ .Generator }}">
<title>{{ .Title | add_non_breaking_spaces }}</title>
</head>
<body>
<main>
{{ .Content }}</main>
</body>
</html>
`

// Page is the result of rendering one source.
type Page struct {
	Title       string
	Params      map[string]any
	Content     string // filtered body HTML
	Fingerprint string // fingerprint of the source frontmatter and body
	HTML        string // full document produced by the layout
}

// Renderer turns markdown sources into pages. It is safe for concurrent use.
type Renderer struct {
	layout   string
	chain    filters.Func
	registry *filters.Registry
	md       *markdown.Renderer
}

// NewRenderer builds a renderer. An empty layout selects DefaultLayout; a nil
// chain leaves the body as goldmark produced it; a nil registry uses the
// default one for filters called from the layout.
func NewRenderer(layout string, chain filters.Func, reg *filters.Registry, opts markdown.Options) *Renderer {
	if layout == "" {
		layout = DefaultLayout
	}
	if chain == nil {
		chain = func(s string) string { return s }
	}
	if reg == nil {
		reg = filters.Default()
	}
	return &Renderer{layout: layout, chain: chain, registry: reg, md: markdown.New(opts)}
}

// RenderPage renders src. name identifies the source in errors and provides
// the title when the frontmatter has none.
func (r *Renderer) RenderPage(name string, src []byte) (*Page, error) {
	doc, err := frontmatter.Split(src)
	if err != nil {
		return nil, errors.RenderError(name, err)
	}
	params, err := doc.Params()
	if err != nil {
		return nil, errors.RenderError(name, err).WithContext("phase", "frontmatter")
	}

	body, err := r.md.Render(doc.Body)
	if err != nil {
		return nil, errors.RenderError(name, err).WithContext("phase", "markdown")
	}

	p := &Page{
		Title:       titleFor(name, params),
		Params:      params,
		Content:     r.chain(string(body)),
		Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimRight(string(doc.Raw), "\r\n"), string(doc.Body)),
	}

	p.HTML, err = templates.Render(name, r.layout, map[string]any{
		"Title":       p.Title,
		"Params":      p.Params,
		"Content":     p.Content,
		"Fingerprint": p.Fingerprint,
	}, r.registry)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func titleFor(name string, params map[string]any) string {
	if t, ok := params["title"].(string); ok && strings.TrimSpace(t) != "" {
		return t
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
