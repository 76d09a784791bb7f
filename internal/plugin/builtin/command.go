package builtin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/plugin"
	"git.home.luguber.info/inful/nile/internal/toolrun"
)

// ArtifactPlaceholder is replaced by the contract path in command hook arguments.
// When no argument contains it, the path is appended as the last argument.
const ArtifactPlaceholder = "{artifact}"

// ErrCommandFailed is returned when a command hook exits non-zero.
var ErrCommandFailed = errors.New("hook command failed")

func commandFactory(runner toolrun.Runner) plugin.Factory {
	return func(spec config.HookSpec) (plugin.Hook, error) {
		if err := checkOptions(spec, "dir"); err != nil {
			return nil, err
		}
		if runner == nil {
			return nil, fmt.Errorf("hook %q: no runner for command hooks", spec.DisplayName())
		}
		argv, err := shellquote.Split(spec.Command)
		if err != nil {
			return nil, fmt.Errorf("hook %q: parse command: %w", spec.DisplayName(), err)
		}
		if len(argv) == 0 {
			return nil, fmt.Errorf("hook %q: empty command", spec.DisplayName())
		}

		h := &commandHook{runner: runner, argv: argv, dir: spec.Options["dir"]}
		h.meta = plugin.HookMetadata{
			Name:        spec.DisplayName(),
			Description: "runs " + spec.Command,
			Source:      plugin.SourceCommand,
		}
		return h, nil
	}
}

type commandHook struct {
	meta   plugin.HookMetadata
	runner toolrun.Runner
	argv   []string
	dir    string
}

func (h *commandHook) Metadata() plugin.HookMetadata { return h.meta }

func (h *commandHook) Invoke(ctx context.Context, artifact string) error {
	cmd := h.command(ctx, artifact)
	res, err := h.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("%w: %s exited with status %d", ErrCommandFailed, cmd.String(), res.ExitCode)
	}
	return nil
}

func (h *commandHook) command(ctx context.Context, artifact string) toolrun.Command {
	args := make([]string, 0, len(h.argv))
	substituted := false
	for _, a := range h.argv[1:] {
		if strings.Contains(a, ArtifactPlaceholder) {
			a = strings.ReplaceAll(a, ArtifactPlaceholder, artifact)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, artifact)
	}

	return toolrun.Command{
		Name: h.argv[0],
		Args: args,
		Dir:  h.dir,
		Env: []string{
			"NILE_RUN_ID=" + plugin.RunIDFromContext(ctx),
			"NILE_ARTIFACT=" + artifact,
		},
	}
}
