package commands

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
)

// FilterCmd implements the 'filter' command.
type FilterCmd struct {
	Filters []string `short:"f" help:"Filters to apply, in order (defaults to the configured list)"`
	Text    []string `arg:"" optional:"" help:"Text to filter; stdin is read when omitted"`
}

func (f *FilterCmd) Run(g *Global, root *CLI) error {
	names := f.Filters
	if len(names) == 0 {
		cfg, err := root.loadConfig()
		if err != nil {
			return err
		}
		names = cfg.Filters
	}
	chain, err := filters.Default().Chain(names...)
	if err != nil {
		return err
	}

	if len(f.Text) > 0 {
		_, err := fmt.Fprintln(g.Stdout, chain(strings.Join(f.Text, " ")))
		return err
	}

	input, err := io.ReadAll(g.Stdin)
	if err != nil {
		return errors.FileError("read", "stdin", err)
	}
	_, err = io.WriteString(g.Stdout, chain(string(input)))
	return err
}
