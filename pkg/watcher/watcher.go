// Package watcher re-runs work when input files are saved.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/philipparndt/gosolid/internal/logging"
)

// Handler processes a changed file
type Handler func(path string)

// FileWatcher calls a handler once a watched file has been quiet for the
// debounce period after a write. The parent directory is watched so that
// editors replacing the file on save are still seen. Handlers never run
// concurrently.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	handlers map[string]Handler
	timers   map[string]*time.Timer
	dirs     map[string]bool

	run sync.Mutex
}

// NewFileWatcher creates a watcher with the given debounce period
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		debounce: debounce,
		handlers: make(map[string]Handler),
		timers:   make(map[string]*time.Timer),
		dirs:     make(map[string]bool),
	}, nil
}

// Watch registers handler for file
func (fw *FileWatcher) Watch(file string, handler Handler) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	dir := filepath.Dir(absPath)
	if !fw.dirs[dir] {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		fw.dirs[dir] = true
	}
	fw.handlers[absPath] = handler
	return nil
}

// Run dispatches file events until ctx is done or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer fw.stopTimers()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.schedule(filepath.Clean(event.Name))
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logf("watcher error: %v", err)
		}
	}
}

// schedule restarts the debounce timer of a watched file
func (fw *FileWatcher) schedule(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	handler, ok := fw.handlers[path]
	if !ok {
		return
	}
	if timer, ok := fw.timers[path]; ok {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.run.Lock()
		defer fw.run.Unlock()
		handler(path)
	})
}

func (fw *FileWatcher) stopTimers() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	for path, timer := range fw.timers {
		timer.Stop()
		delete(fw.timers, path)
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.stopTimers()
	return fw.watcher.Close()
}
