// Package watcher keeps validated workspaces fresh: file changes under a
// watched root are debounced and turned into rescans of that root.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aget-framework/aget-sub002/internal/config"
	"github.com/aget-framework/aget-sub002/internal/logger"
	"github.com/aget-framework/aget-sub002/internal/scan"
)

var log = logger.ForComponent("watcher")

type Watcher struct {
	config      config.WatcherConfig
	fsWatcher   *fsnotify.Watcher
	fsWatcherMu sync.Mutex
	debouncer   *Debouncer
	classifier  *EventClassifier
	scanner     *scan.Worker
	roots       []string
	mu          sync.RWMutex
	running     bool
	ctx         context.Context
	cancel      context.CancelFunc
}

func New(cfg config.WatcherConfig, scanner *scan.Worker) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:     cfg,
		fsWatcher:  fsWatcher,
		classifier: NewEventClassifier(),
		scanner:    scanner,
	}

	w.debouncer = NewDebouncer(cfg.DebounceWindow, cfg.MaxBatchSize, w.onFlush)

	return w, nil
}

func (w *Watcher) addToWatcher(path string) error {
	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	return w.fsWatcher.Add(path)
}

func (w *Watcher) removeFromWatcher(path string) {
	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	w.fsWatcher.Remove(path)
}

// AddRoot starts watching a workspace recursively and queues an initial
// low-priority scan of it.
func (w *Watcher) AddRoot(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	log.Info("watching workspace", "root", abs)

	if err := w.addToWatcher(abs); err != nil {
		return err
	}

	w.mu.Lock()
	w.roots = append(w.roots, abs)
	w.mu.Unlock()

	w.walkAndAdd(abs)

	if w.scanner != nil {
		w.scanner.Enqueue(scan.Job{Root: abs, Priority: scan.PriorityLow})
	}

	return nil
}

func (w *Watcher) walkAndAdd(path string) {
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Debug("failed to read directory", "path", path, "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		fullPath := filepath.Join(path, entry.Name())
		if w.shouldIgnore(fullPath) {
			continue
		}

		if err := w.addToWatcher(fullPath); err != nil {
			log.Debug("failed to watch directory", "path", fullPath, "error", err)
			continue
		}
		w.walkAndAdd(fullPath)
	}
}

func (w *Watcher) RemoveRoot(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.removeFromWatcher(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	for i, root := range w.roots {
		if root == abs {
			w.roots = append(w.roots[:i], w.roots[i+1:]...)
			break
		}
	}

	return nil
}

func (w *Watcher) Roots() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.roots...)
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	w.running = true
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	log.Info("file watcher started")
	go w.handleEvents()

	return nil
}

func (w *Watcher) handleEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			log.Debug("file event", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.shouldIgnore(event.Name) {
						if err := w.addToWatcher(event.Name); err == nil {
							w.walkAndAdd(event.Name)
						}
					}
				}
			}

			fileEvent := w.convertEvent(event)
			if fileEvent != nil {
				w.debouncer.Add(*fileEvent)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) convertEvent(event fsnotify.Event) *FileEvent {
	if w.shouldIgnore(event.Name) {
		return nil
	}

	var eventType EventType

	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventModify
	case event.Has(fsnotify.Remove):
		eventType = EventDelete
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	default:
		return nil
	}

	return &FileEvent{
		Path:      event.Name,
		Type:      eventType,
		Timestamp: time.Now(),
	}
}

// onFlush maps the batch back to the workspace roots it touched and
// queues one rescan per root. Deletes count too: a removed document can
// break links elsewhere.
func (w *Watcher) onFlush(events []FileEvent) {
	if len(events) == 0 || w.scanner == nil {
		return
	}

	log.Info("flushing events", "count", len(events))

	priority := w.classifier.ClassifyBatch(events)

	touched := make(map[string]bool)
	for _, event := range events {
		if root := w.rootFor(event.Path); root != "" {
			touched[root] = true
		}
	}

	for root := range touched {
		w.scanner.Invalidate(root)
		w.scanner.Enqueue(scan.Job{Root: root, Priority: priority})
	}
}

func (w *Watcher) rootFor(path string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

func (w *Watcher) shouldIgnore(path string) bool {
	basename := filepath.Base(path)

	// .aget/version.json must stay visible even though it is dotted.
	if !w.config.WatchHidden && strings.HasPrefix(basename, ".") && basename != ".aget" {
		return true
	}

	for _, pattern := range w.config.IgnorePatterns {
		if match, _ := doublestar.Match(pattern, filepath.ToSlash(path)); match {
			return true
		}
	}

	return false
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}

	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.debouncer.Stop()

	log.Info("file watcher stopped")

	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	return w.fsWatcher.Close()
}
