package commands

import (
	"io"
	"os"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File   string `arg:"" help:"Markdown file to render" type:"existingfile"`
	Layout string `short:"l" help:"Layout template (overrides the configured layout)"`
	Output string `short:"o" help:"Write HTML to this file instead of stdout"`
	Unsafe bool   `help:"Pass raw HTML in the markdown through"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if r.Layout != "" {
		cfg.Markdown.Layout = r.Layout
	}
	if r.Unsafe {
		cfg.Markdown.Unsafe = true
	}

	reg := filters.Default()
	chain, err := reg.Chain(cfg.Filters...)
	if err != nil {
		return err
	}
	pages, err := pageRenderer(cfg, chain, reg)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(r.File)
	if err != nil {
		return errors.FileError("read", r.File, err)
	}
	p, err := pages.RenderPage(r.File, src)
	if err != nil {
		return err
	}

	if r.Output == "" {
		_, err = io.WriteString(g.Stdout, p.HTML)
		return err
	}
	if err := os.WriteFile(r.Output, []byte(p.HTML), 0o644); err != nil {
		return errors.FileError("write", r.Output, err)
	}
	return nil
}
