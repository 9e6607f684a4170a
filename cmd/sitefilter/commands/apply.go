package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitefilter/internal/config"
	"git.home.luguber.info/inful/sitefilter/internal/site"
)

// ApplyCmd implements the 'apply' command.
type ApplyCmd struct {
	Source   string `arg:"" optional:"" help:"Rendered site directory (defaults to the configured source)"`
	Output   string `short:"o" help:"Write results here instead of rewriting the source in place"`
	Workers  int    `short:"w" help:"Parallel workers (0 uses the configured value or GOMAXPROCS)"`
	Markdown bool   `help:"Also render markdown sources to HTML"`
}

func (a *ApplyCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	a.override(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sum, err := runApply(ctx, cfg, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.Stdout, "%d files: %d filtered, %d rendered, %d changed, %d copied, %d skipped\n",
		sum.Seen, sum.Filtered, sum.Rendered, sum.Changed, sum.Copied, sum.Skipped)
	return err
}

func (a *ApplyCmd) override(cfg *config.Config) {
	if a.Source != "" {
		cfg.Source = a.Source
	}
	if a.Output != "" {
		cfg.Output = a.Output
	}
	if a.Workers > 0 {
		cfg.Workers = a.Workers
	}
	if a.Markdown {
		cfg.Markdown.Render = true
	}
}

// runApply builds the pipeline from cfg and processes the source once.
func runApply(ctx context.Context, cfg *config.Config, configure func(*site.Processor)) (*site.Summary, error) {
	chain, pages, err := pipeline(cfg)
	if err != nil {
		return nil, err
	}
	proc := site.NewProcessor(cfg, chain, pages)
	if configure != nil {
		configure(proc)
	}
	return proc.ProcessDir(ctx, cfg.Source, cfg.Output)
}
