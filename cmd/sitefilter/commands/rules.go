package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/sitefilter/internal/typography"
)

// RulesCmd implements the 'rules' command.
type RulesCmd struct{}

func (RulesCmd) Run(g *Global) error {
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ORDER\tNAME\tPATTERN\n")
	for _, r := range typography.Rules() {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Order, r.Name, r.Pattern)
	}
	return tw.Flush()
}
