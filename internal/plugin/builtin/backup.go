package builtin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/logfields"
	"git.home.luguber.info/inful/nile/internal/plugin"
)

// DefaultBackupSuffix is appended to the contract path when no suffix option is set.
const DefaultBackupSuffix = ".bak"

func newBackupHook(spec config.HookSpec) (plugin.Hook, error) {
	if err := checkOptions(spec, "suffix"); err != nil {
		return nil, err
	}
	suffix := DefaultBackupSuffix
	if s, ok := spec.Options["suffix"]; ok {
		suffix = s
	}
	if suffix == "" || strings.ContainsAny(suffix, `/\`) {
		return nil, fmt.Errorf("hook %q: invalid suffix %q", spec.DisplayName(), suffix)
	}

	return newBuiltin(spec, "copies every contract to <contract>"+suffix, func(_ context.Context, artifact string) error {
		dst := artifact + suffix
		if err := copyFile(artifact, dst); err != nil {
			return err
		}
		slog.Debug("Backed up contract", logfields.Artifact(artifact), logfields.Path(dst))
		return nil
	}), nil
}

// copyFile copies src to dst, replacing dst and keeping src's permissions.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
