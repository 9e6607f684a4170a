package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitefilter/internal/config"
)

// DefaultConfigPath is used by init when --config is not given.
const DefaultConfigPath = "sitefilter.yaml"

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = DefaultConfigPath
	}
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, err := fmt.Fprintf(g.Stdout, "Wrote configuration to %s\n", path)
	return err
}
