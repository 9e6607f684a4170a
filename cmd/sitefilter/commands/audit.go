package commands

import (
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/sitefilter/internal/audit"
	"git.home.luguber.info/inful/sitefilter/internal/errors"
)

// AuditCmd implements the 'audit' command.
type AuditCmd struct {
	Path   string `arg:"" optional:"" help:"HTML file or directory (defaults to the configured source)"`
	Strict bool   `help:"Exit with an error when anything is reported"`
}

func (a *AuditCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	path := a.Path
	if path == "" {
		path = cfg.Source
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.FileError("stat", path, err)
	}
	var findings []audit.Finding
	if info.IsDir() {
		findings, err = audit.Dir(path, cfg.Extensions)
	} else {
		findings, err = audit.File(path)
	}
	if err != nil {
		return err
	}

	for _, f := range findings {
		text := strings.Join(strings.Fields(f.Text), " ")
		if _, err := fmt.Fprintf(g.Stdout, "%s:%d: %s: %q\n", f.File, f.Line, f.Rule, text); err != nil {
			return err
		}
	}
	if a.Strict && len(findings) > 0 {
		return errors.ValidationFailed("audit", fmt.Sprintf("%d near-miss phrase(s) found", len(findings)))
	}
	return nil
}
