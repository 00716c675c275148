// Package watcher reports batches of changed files under a project root.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/dashlint/dashlint/internal/adapters/outbound/scanner"
)

// DefaultDebounce is how long the watcher waits for more events before
// delivering a batch.
const DefaultDebounce = 300 * time.Millisecond

// FSWatcher implements domain.ChangeWatcher with fsnotify.
type FSWatcher struct {
	debounce time.Duration
	logger   logrus.FieldLogger
}

func New(debounce time.Duration, logger logrus.FieldLogger) *FSWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FSWatcher{debounce: debounce, logger: logger}
}

// Watch blocks until ctx is done, calling onChange from the watching
// goroutine with the sorted, project-relative paths that changed during a
// quiet period. Paths the scanner would skip are never reported.
func (w *FSWatcher) Watch(ctx context.Context, root string, ignorePatterns []string, onChange func(paths []string)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, absRoot, absRoot, ignorePatterns); err != nil {
		return fmt.Errorf("watching %s: %w", absRoot, err)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(absRoot, ev.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !w.skipped(rel, true, ignorePatterns) {
						if err := w.addRecursive(fw, absRoot, ev.Name, ignorePatterns); err != nil {
							w.logger.WithError(err).WithField("dir", rel).Warn("cannot watch new directory")
						}
					}
					continue
				}
			}
			if w.skipped(rel, false, ignorePatterns) {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("watch error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]bool)
			onChange(paths)
		}
	}
}

func (w *FSWatcher) addRecursive(fw *fsnotify.Watcher, root, dir string, ignorePatterns []string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if rel != "." && w.skipped(rel, true, ignorePatterns) {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}

// skipped mirrors the scanner's pruning so watch never reports a file a
// check would not look at. Atomic-write temp files are always skipped.
func (w *FSWatcher) skipped(rel string, isDir bool, ignorePatterns []string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if scanner.SkipDir(seg) {
			return true
		}
	}
	if scanner.Ignored(rel, isDir, ignorePatterns) {
		return true
	}
	if isDir {
		return false
	}
	base := path.Base(rel)
	if strings.HasPrefix(base, ".") && strings.Contains(base, ".dashlint-") {
		return true
	}
	return !scanner.IsTextCandidate(base)
}
