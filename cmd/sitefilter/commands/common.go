package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitefilter/internal/config"
	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
	"git.home.luguber.info/inful/sitefilter/internal/markdown"
	"git.home.luguber.info/inful/sitefilter/internal/page"
)

// Global carries process streams into commands so tests can swap them.
type Global struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (built-in defaults when omitted)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Filter FilterCmd `cmd:"" help:"Filter text from arguments or stdin to stdout"`
	Apply  ApplyCmd  `cmd:"" help:"Apply filters to every matching file of a rendered site"`
	Render RenderCmd `cmd:"" help:"Render one markdown page through the layout and filters"`
	Watch  WatchCmd  `cmd:"" help:"Apply filters, then re-apply whenever the source changes"`
	Audit  AuditCmd  `cmd:"" help:"Report trigger phrases the filters cannot join"`
	Rules  RulesCmd  `cmd:"" help:"List the non-breaking-space rules in the order they run"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configured file, or returns defaults when none was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.Config == "" {
		return config.Default(), nil
	}
	return config.Load(c.Config)
}

// pipeline resolves the filter chain and, when markdown rendering is on, the
// page renderer for cfg.
func pipeline(cfg *config.Config) (filters.Func, *page.Renderer, error) {
	reg := filters.Default()
	chain, err := reg.Chain(cfg.Filters...)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Markdown.Render {
		return chain, nil, nil
	}
	pages, err := pageRenderer(cfg, chain, reg)
	if err != nil {
		return nil, nil, err
	}
	return chain, pages, nil
}

func pageRenderer(cfg *config.Config, chain filters.Func, reg *filters.Registry) (*page.Renderer, error) {
	layout := ""
	if cfg.Markdown.Layout != "" {
		data, err := os.ReadFile(cfg.Markdown.Layout)
		if err != nil {
			return nil, errors.FileError("read layout", cfg.Markdown.Layout, err)
		}
		layout = string(data)
	}
	return page.NewRenderer(layout, chain, reg, markdown.Options{Unsafe: cfg.Markdown.Unsafe}), nil
}
