// Package builtin contains the hooks shipped with nile. They are enabled per
// project through the hooks section of nile.yaml.
package builtin

import (
	"context"
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/plugin"
	"git.home.luguber.info/inful/nile/internal/toolrun"
)

// Names of the compiled-in hooks.
const (
	LogHook      = "log"
	BackupHook   = "backup"
	GitGuardHook = "gitguard"
)

// NewCatalog returns a catalog holding every builtin hook plus the command
// factory. Command hooks run through runner.
func NewCatalog(runner toolrun.Runner) *plugin.Catalog {
	cat := plugin.NewCatalog()
	entries := map[string]plugin.Factory{
		LogHook:               newLogHook,
		BackupHook:            newBackupHook,
		GitGuardHook:          newGitGuardHook,
		plugin.CommandFactory: commandFactory(runner),
	}
	for name, factory := range entries {
		if err := cat.Add(name, factory); err != nil {
			panic(fmt.Sprintf("builtin catalog: %v", err))
		}
	}
	return cat
}

type hook struct {
	meta plugin.HookMetadata
	fn   func(ctx context.Context, artifact string) error
}

func (h *hook) Metadata() plugin.HookMetadata { return h.meta }

func (h *hook) Invoke(ctx context.Context, artifact string) error { return h.fn(ctx, artifact) }

func newBuiltin(spec config.HookSpec, description string, fn func(context.Context, string) error) *hook {
	return &hook{
		meta: plugin.HookMetadata{Name: spec.DisplayName(), Description: description, Source: plugin.SourceBuiltin},
		fn:   fn,
	}
}

// checkOptions rejects options the hook does not understand.
func checkOptions(spec config.HookSpec, allowed ...string) error {
	for key := range spec.Options {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("hook %q: unknown option %q", spec.DisplayName(), key)
		}
	}
	return nil
}

func boolOption(spec config.HookSpec, key string) (bool, error) {
	v, ok := spec.Options[key]
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("hook %q: option %s: %w", spec.DisplayName(), key, err)
	}
	return b, nil
}
