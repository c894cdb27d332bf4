// Package learning: document watcher.
// Long-running read-only consumers (the interactive suggest flow) can keep a
// snapshot fresh without polling: the watcher reloads the document whenever the
// backing file changes on disk, debouncing rapid rewrites.
package learning

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"angkan/internal/logging"
)

// Watcher watches the learning document file and invokes a callback with a
// freshly loaded snapshot after each settled change.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *FileStore
	onReload func(*LearningDocument)

	pending     time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stopped     bool
}

// NewWatcher creates a watcher over the store's backing file. onReload runs on
// the watcher goroutine; keep it short.
func NewWatcher(store *FileStore, onReload func(*LearningDocument)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fsw,
		store:       store,
		onReload:    onReload,
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
// A stopped watcher cannot be restarted.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return errors.New("document watcher already stopped")
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory, not the file: saves go through rename, which drops
	// a file-level watch on every replace.
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		// The event loop never launched; leave the watcher stoppable.
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Store("Watching learning document directory: %s", dir)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. Safe to call
// after a failed Start or more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	// Only wait on the event loop if Start actually launched it.
	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		logging.StoreError("Error closing document watcher: %v", err)
	}
}

// run is the watcher event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.store.Path() {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logging.StoreDebug("Document changed on disk (%s)", event.Op)
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.StoreError("Document watcher error: %v", err)

		case <-ticker.C:
			w.mu.Lock()
			settled := !w.pending.IsZero() && time.Since(w.pending) >= w.debounceDur
			if settled {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if settled {
				w.reload()
			}
		}
	}
}

// reload loads a fresh snapshot and hands it to the callback.
func (w *Watcher) reload() {
	doc, err := w.store.Load()
	if err != nil {
		logging.StoreError("Reload after external change failed: %v", err)
		return
	}
	logging.Store("Reloaded learning document after external change")
	if w.onReload != nil {
		w.onReload(doc)
	}
}
