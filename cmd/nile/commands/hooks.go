package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/plugin/builtin"
	"git.home.luguber.info/inful/nile/internal/toolrun"
)

// HooksCmd implements the 'hooks' command.
type HooksCmd struct{}

func (h *HooksCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return ListHooks(os.Stdout, cfg)
}

// ListHooks prints the resolved hooks per extension point, then the catalog.
func ListHooks(out io.Writer, cfg *config.Config) error {
	runner := toolrun.NewExecRunner()
	reg, err := buildRegistry(cfg, runner)
	if err != nil {
		return err
	}

	if reg.Count() == 0 {
		fmt.Fprintln(out, "No hooks enabled")
	}
	for _, point := range reg.Points() {
		fmt.Fprintf(out, "%s:\n", point)
		for i, hook := range reg.List(point) {
			meta := hook.Metadata()
			fmt.Fprintf(out, "  %d. %s", i+1, meta)
			if meta.Description != "" {
				fmt.Fprintf(out, " - %s", meta.Description)
			}
			fmt.Fprintln(out)
		}
	}
	fmt.Fprintf(out, "Available: %s\n", strings.Join(builtin.NewCatalog(runner).Names(), ", "))
	return nil
}
