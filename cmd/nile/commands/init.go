package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/nile/internal/config"
	nerrors "git.home.luguber.info/inful/nile/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(os.Stdout, root.Config, i.Force)
}

func RunInit(out io.Writer, configPath string, force bool) error {
	fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return nerrors.ConfigInvalid(configPath, err)
	}
	fmt.Fprintln(out, "✅ Initialized nile project")
	return nil
}
