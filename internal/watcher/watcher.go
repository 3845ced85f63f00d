// Package watcher watches configuration files for changes with debouncing,
// feeding the dev server's live-reload channel.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a debounced file change.
type ChangeEvent struct {
	Path    string
	ModTime time.Time
}

// ChangeHandler handles a batch of debounced change events.
type ChangeHandler func(events []ChangeEvent)

// ConfigWatcher watches individual files and delivers debounced change
// batches to its handlers.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	handlers []ChangeHandler
	mutex    sync.Mutex
	pending  []ChangeEvent
	timer    *time.Timer
}

// New creates a config watcher with the given debounce delay.
func New(debounceDelay time.Duration) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		watcher: w,
		delay:   debounceDelay,
	}, nil
}

// AddPath watches a single file.
func (cw *ConfigWatcher) AddPath(path string) error {
	return cw.watcher.Add(filepath.Clean(path))
}

// AddHandler registers a handler for debounced change batches. Handlers must
// be registered before Start.
func (cw *ConfigWatcher) AddHandler(handler ChangeHandler) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.handlers = append(cw.handlers, handler)
}

// Start runs the watch loop until ctx is cancelled.
func (cw *ConfigWatcher) Start(ctx context.Context) {
	go cw.loop(ctx)
}

// Stop closes the underlying watcher.
func (cw *ConfigWatcher) Stop() error {
	cw.mutex.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.mutex.Unlock()

	return cw.watcher.Close()
}

func (cw *ConfigWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cw.enqueue(ChangeEvent{Path: event.Name, ModTime: time.Now()})
		case _, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient on most platforms; keep watching.
		}
	}
}

// enqueue buffers an event and (re)arms the debounce timer so rapid
// successive writes collapse into one handler invocation.
func (cw *ConfigWatcher) enqueue(event ChangeEvent) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	cw.pending = append(cw.pending, event)

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.delay, cw.flush)
}

func (cw *ConfigWatcher) flush() {
	cw.mutex.Lock()
	events := cw.pending
	cw.pending = nil
	handlers := make([]ChangeHandler, len(cw.handlers))
	copy(handlers, cw.handlers)
	cw.mutex.Unlock()

	if len(events) == 0 {
		return
	}
	for _, handler := range handlers {
		handler(events)
	}
}
