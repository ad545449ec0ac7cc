package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

func (l *loader) Watch(ctx context.Context, m Manifest, onChange func(Assets)) error {
	watched := m.LocalPaths()
	if len(watched) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create asset watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files by rename, so the parent directories are watched instead of the files.
	dirs := make(map[string]struct{})
	for path := range watched {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			l.logger.Warn("asset directory not watched", "dir", dir, "error", err)
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ref, tracked := watched[filepath.Clean(event.Name)]
			if !tracked || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			l.Invalidate(ref)
			// a burst of events from one save becomes a single reload
			pending = time.After(l.reloadDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("asset watcher error", "error", err)
		case <-pending:
			pending = nil
			assets, err := l.LoadAll(ctx, m)
			if err != nil {
				l.logger.Warn("asset reload incomplete", "error", err)
			}
			l.logger.Info("assets reloaded", "fonts", len(assets.Fonts), "logos", len(assets.Logos))
			onChange(assets)
		}
	}
}
