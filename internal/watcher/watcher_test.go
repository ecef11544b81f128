package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestWatchFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	if err := os.WriteFile(path, []byte("nodes: []\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var calls atomic.Int32
	changed := make(chan struct{}, 8)
	w := New(path, func() {
		calls.Add(1)
		changed <- struct{}{}
	}).WithDebounce(150 * time.Millisecond).WithLogger(zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("nodes: []\n# edit\n"), 0644); err != nil {
			t.Fatalf("failed to rewrite file: %v", err)
		}
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected onChange after write")
	}

	// Writes to other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}
	time.Sleep(400 * time.Millisecond)

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single debounced call, got %d", n)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "graph.yaml"), func() {})
	if err := w.Watch(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
