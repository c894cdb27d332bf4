package learning

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatcherReloadsOnSave(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := newTestStore(t)
	doc, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var reloads atomic.Int32
	var lastFamilies atomic.Int32
	w, err := NewWatcher(fs, func(d *LearningDocument) {
		reloads.Add(1)
		lastFamilies.Store(int32(d.Statistics.TotalFamilies))
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	doc.Statistics.TotalFamilies = 9
	if err := fs.Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never reloaded after a save")
		case <-time.After(50 * time.Millisecond):
		}
	}
	if lastFamilies.Load() != 9 {
		t.Errorf("reloaded TotalFamilies = %d, want 9", lastFamilies.Load())
	}
}

func TestWatcherDebouncesRapidSaves(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := newTestStore(t)
	doc, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var reloads atomic.Int32
	w, err := NewWatcher(fs, func(*LearningDocument) { reloads.Add(1) })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.debounceDur = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// A burst of saves inside the debounce window collapses to one reload.
	for i := 0; i < 5; i++ {
		doc.Statistics.TotalFamilies = i
		if err := fs.Save(doc); err != nil {
			t.Fatalf("Save: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	deadline := time.After(5 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never reloaded")
		case <-time.After(50 * time.Millisecond):
		}
	}
	// Give any spurious extra reloads time to surface.
	time.Sleep(400 * time.Millisecond)
	if n := reloads.Load(); n != 1 {
		t.Errorf("reloads = %d, want 1 for a debounced burst", n)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := newTestStore(t)
	w, err := NewWatcher(fs, func(*LearningDocument) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcherStopAfterFailedStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := newTestStore(t)
	w, err := NewWatcher(fs, func(*LearningDocument) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	// Removing the data directory makes the directory watch fail.
	if err := os.RemoveAll(filepath.Dir(fs.Path())); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded with the data directory gone")
	}

	// Stop after a failed Start must return rather than wait on an event
	// loop that never launched.
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop hung after a failed Start")
	}
}

func TestWatcherStartAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := newTestStore(t)
	w, err := NewWatcher(fs, func(*LearningDocument) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded on a stopped watcher")
	}
}
