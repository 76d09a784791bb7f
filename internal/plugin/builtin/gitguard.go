package builtin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/plugin"
)

// ErrDirtyContract is returned when a contract differs from the committed version.
var ErrDirtyContract = errors.New("contract has uncommitted changes")

// ErrNotInRepository is returned when a contract is outside any git repository.
var ErrNotInRepository = errors.New("contract is not in a git repository")

func newGitGuardHook(spec config.HookSpec) (plugin.Hook, error) {
	if err := checkOptions(spec, "allow_untracked"); err != nil {
		return nil, err
	}
	allowUntracked, err := boolOption(spec, "allow_untracked")
	if err != nil {
		return nil, err
	}

	return newBuiltin(spec, "refuses to compile contracts with uncommitted changes", func(_ context.Context, artifact string) error {
		return checkCommitted(artifact, allowUntracked)
	}), nil
}

func checkCommitted(artifact string, allowUntracked bool) error {
	abs, err := resolvePath(artifact)
	if err != nil {
		return err
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return fmt.Errorf("%w: %s", ErrNotInRepository, artifact)
		}
		return fmt.Errorf("open repository for %s: %w", artifact, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree for %s: %w", artifact, err)
	}
	root, err := resolvePath(wt.Filesystem.Root())
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return fmt.Errorf("locate %s in %s: %w", artifact, root, err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("git status for %s: %w", artifact, err)
	}

	fs, listed := status[filepath.ToSlash(rel)]
	if !listed {
		return nil
	}
	if fs.Worktree == git.Untracked {
		if allowUntracked {
			return nil
		}
		return fmt.Errorf("%w: %s is untracked", ErrDirtyContract, artifact)
	}
	if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
		return fmt.Errorf("%w: %s (staging %q, worktree %q)", ErrDirtyContract, artifact, fs.Staging, fs.Worktree)
	}
	return nil
}

func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
