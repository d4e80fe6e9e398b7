// Package watch implements the watch mode addition from SPEC_FULL.md
// §3.4: re-running an analysis whenever a file under the repository
// changes. Recursive directory registration and write-debouncing are
// grounded on blueman82-conductor's internal/behavioral.FileWatcher.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/scanner"
)

// DebounceDelay coalesces a burst of filesystem events (e.g. an editor's
// save-via-rename) into a single re-analysis.
const DebounceDelay = 300 * time.Millisecond

// Run watches repoPath and invokes analyze once immediately, then again
// after every debounced batch of filesystem changes, until ctx is
// cancelled. analyze is expected to be a closure over the orchestrator,
// config, and output writer for one full run.
func Run(ctx context.Context, repoPath string, cfg *config.Config, analyze func(context.Context) error) error {
	if err := analyze(ctx); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addRecursive(w, repoPath, cfg); err != nil {
		return err
	}

	var timer *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					addRecursive(w, ev.Name, cfg)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(DebounceDelay, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case <-w.Errors:
			// non-fatal: fsnotify surfaces transient errors (e.g. a
			// removed watch target); the next event still arrives.
		case <-trigger:
			if err := analyze(ctx); err != nil {
				return err
			}
		}
	}
}

// addRecursive registers dir and every subdirectory not excluded by
// cfg's patterns, mirroring the Scanner's own directory-skip rules so
// the watcher doesn't churn on node_modules/.git/etc.
func addRecursive(w *fsnotify.Watcher, dir string, cfg *config.Config) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(dir, path)
		if rel != "." && scanner.MatchesAny(rel+"/", cfg.ExcludePatterns) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil && !os.IsPermission(err) {
			return nil
		}
		return nil
	})
}
