package builtin

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/logfields"
	"git.home.luguber.info/inful/nile/internal/plugin"
)

func newLogHook(spec config.HookSpec) (plugin.Hook, error) {
	if err := checkOptions(spec); err != nil {
		return nil, err
	}
	return newBuiltin(spec, "logs every contract before it is compiled", func(ctx context.Context, artifact string) error {
		slog.InfoContext(ctx, "About to compile "+artifact,
			logfields.Artifact(artifact),
			logfields.RunID(plugin.RunIDFromContext(ctx)))
		return nil
	}), nil
}
