// Package filewatcher provides file system monitoring adapters.
// Clean Architecture: Adapter implementing ports.FileWatcher.
package filewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
)

// FSNotifyWatcher implements ports.FileWatcher using fsnotify.
// It watches the parent directories so atomic rename-over saves are seen,
// and only reports events for the exact files it was asked about.
type FSNotifyWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
}

// NewFSNotifyWatcher creates a new file watcher. Bursts of events for the
// same file within debounce are coalesced into the last one.
func NewFSNotifyWatcher(debounce time.Duration, logger *zap.Logger) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FSNotifyWatcher{
		watcher:  w,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Watch starts monitoring paths and emits debounced events.
func (w *FSNotifyWatcher) Watch(ctx context.Context, paths []string) (<-chan ports.FileEvent, error) {
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	events := make(chan ports.FileEvent, 100)

	go func() {
		defer close(events)

		pending := make(map[string]ports.FileOperation)
		timer := time.NewTimer(w.debounce)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				name, err := filepath.Abs(event.Name)
				if err != nil || !files[name] {
					continue
				}

				var op ports.FileOperation
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = ports.FileCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = ports.FileModified
				case event.Op&fsnotify.Remove == fsnotify.Remove,
					event.Op&fsnotify.Rename == fsnotify.Rename:
					op = ports.FileDeleted
				default:
					continue
				}

				pending[name] = op
				timer.Reset(w.debounce)
			case <-timer.C:
				for path, op := range pending {
					select {
					case events <- ports.FileEvent{Path: path, Operation: op}:
					case <-ctx.Done():
						return
					}
				}
				clear(pending)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("file watcher error", zap.Error(err))
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}
