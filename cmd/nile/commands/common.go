package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/plugin"
	"git.home.luguber.info/inful/nile/internal/plugin/builtin"
	"git.home.luguber.info/inful/nile/internal/toolrun"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"nile.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Compile CompileCmd `cmd:"" help:"Compile Cairo contracts"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Hooks   HooksCmd   `cmd:"" help:"List the hooks enabled for this project"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel returns debug when verbose is set, otherwise the level named
// by NILE_LOG_LEVEL (info when unset or unknown).
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("NILE_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildRegistry resolves the configured hook manifest into a registry.
func buildRegistry(cfg *config.Config, runner toolrun.Runner) (*plugin.Registry, error) {
	reg := plugin.NewRegistry()
	if err := plugin.LoadManifest(reg, builtin.NewCatalog(runner), cfg.Hooks); err != nil {
		return nil, err
	}
	return reg, nil
}
