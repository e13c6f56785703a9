package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces bursts of events from editors that write a file
// several times per save.
const watchDebounce = 200 * time.Millisecond

// watch runs an initial scan, then re-scans whenever an R file under paths
// changes. It returns on interrupt or watcher shutdown.
func (s *scanner) watch(cmd *cobra.Command, paths []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, path := range paths {
		if err := watchPath(watcher, path); err != nil {
			return err
		}
	}

	if err := s.rescan(ctx, cmd, paths); err != nil {
		return err
	}

	var rescanAt <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						s.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					rescanAt = time.After(watchDebounce)
					continue
				}
			}
			if isRFile(event.Name) {
				rescanAt = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", "error", err)

		case <-rescanAt:
			rescanAt = nil
			if err := s.rescan(ctx, cmd, paths); err != nil {
				return err
			}
		}
	}
}

// rescan runs one scan pass and renders the results.
func (s *scanner) rescan(ctx context.Context, cmd *cobra.Command, paths []string) error {
	results, err := s.scanPaths(ctx, paths)
	if err != nil {
		return err
	}
	if err := s.render(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "[%s] watching for changes...\n", time.Now().Format("15:04:05"))
	return nil
}

// watchPath registers path with the watcher. Directories are walked
// recursively; a file argument watches its parent directory.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
