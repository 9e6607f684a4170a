package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitefilter/cmd/sitefilter/commands"
	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sitefilter"),
		kong.Description("Insert non-breaking spaces and hyphens into rendered site content."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	global := &commands.Global{Stdin: os.Stdin, Stdout: os.Stdout}
	err := parser.Run(global, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
