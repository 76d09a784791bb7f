// Package plugin provides the extension-point registry used by the compile driver.
//
// Hooks are contributed explicitly: compiled-in hooks register themselves in a
// Catalog, and the project manifest (the hooks section of nile.yaml) decides
// which of them run, in which order, at which extension point. Nothing is
// discovered implicitly from the environment, so the set of hooks that can run
// during a compile is auditable from the configuration file alone.
package plugin

import (
	"context"
	"fmt"
)

// PointBeforeCompile is invoked once per contract, before its compiler process starts.
const PointBeforeCompile = "before-compile"

// KnownPoint reports whether an extension point is supported.
func KnownPoint(point string) bool {
	switch point {
	case PointBeforeCompile:
		return true
	default:
		return false
	}
}

// Hook is a callable registered under an extension point.
//
// Hooks run with the full privileges of the nile process. An error returned by
// Invoke aborts the whole compile run.
type Hook interface {
	// Metadata returns the hook's identity.
	Metadata() HookMetadata

	// Invoke runs the hook for one contract path.
	Invoke(ctx context.Context, artifact string) error
}

// HookSource records where a hook implementation comes from.
type HookSource string

const (
	// SourceBuiltin marks hooks shipped with nile and enabled through the manifest.
	SourceBuiltin HookSource = "builtin"

	// SourceCommand marks manifest hooks that run an external command.
	SourceCommand HookSource = "command"

	// SourceCode marks hooks registered directly from Go code.
	SourceCode HookSource = "code"
)

// HookMetadata describes a hook's identity.
type HookMetadata struct {
	// Name is the hook identifier used in logs and errors (e.g., "backup").
	Name string

	// Description provides a human-readable summary of what the hook does.
	Description string

	// Source identifies how the hook was contributed.
	Source HookSource
}

// String returns a human-readable representation of the hook metadata.
func (m HookMetadata) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Source)
}

// Validate checks if the hook metadata is valid.
func (m HookMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("hook name is required")
	}
	switch m.Source {
	case SourceBuiltin, SourceCommand, SourceCode:
		return nil
	default:
		return fmt.Errorf("invalid hook source: %q", m.Source)
	}
}

// HookFunc adapts a plain function to the Invoke signature.
type HookFunc func(ctx context.Context, artifact string) error

type funcHook struct {
	meta HookMetadata
	fn   HookFunc
}

// NewHook wraps fn as a code-registered Hook.
func NewHook(name, description string, fn HookFunc) Hook {
	return &funcHook{
		meta: HookMetadata{Name: name, Description: description, Source: SourceCode},
		fn:   fn,
	}
}

func (h *funcHook) Metadata() HookMetadata { return h.meta }

func (h *funcHook) Invoke(ctx context.Context, artifact string) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(ctx, artifact)
}
