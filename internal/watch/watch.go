// Package watch re-runs compiles when contract files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/nile/internal/logfields"
)

// RunFunc performs one full compile run.
type RunFunc func(ctx context.Context) error

// Watcher monitors a contracts tree and triggers debounced runs.
// Runs never overlap: they execute on the watch loop itself.
type Watcher struct {
	root      string
	extension string
	debounce  time.Duration
	run       RunFunc
	fsw       *fsnotify.Watcher
}

// New creates a watcher for files ending in extension under root.
func New(root, extension string, debounce time.Duration, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, errors.New("watch: run function is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		root:      root,
		extension: extension,
		debounce:  debounce,
		run:       run,
		fsw:       fsw,
	}, nil
}

// Run executes an initial run, then watches until ctx is done. Run errors are
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if _, err := w.addTree(w.root); err != nil {
		return err
	}
	slog.Info("Watching contracts", logfields.Path(w.root), slog.String("extension", w.extension))

	w.runOnce(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping contract watcher")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				slog.Debug("Contract change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("Contract watcher error", logfields.Error(err))

		case <-timer.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if err := w.run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Compile run failed; waiting for changes", logfields.Error(err))
	}
}

// relevant reports whether event should trigger a run. Newly created
// directories are added to the watch as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			found, err := w.addTree(event.Name)
			if err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return found
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	return strings.HasSuffix(event.Name, w.extension)
}

// addTree watches dir and every directory below it, reporting whether any
// contract file was seen.
func (w *Watcher) addTree(dir string) (bool, error) {
	found := false
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if strings.HasSuffix(d.Name(), w.extension) {
				found = true
			}
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
	return found, err
}
