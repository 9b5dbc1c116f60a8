package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stache.toml", "[editor]\nindentSize = 2\n")

	changes := make(chan Settings, 4)
	w, err := NewWatcher(path, func(s Settings) { changes <- s }, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\nindentSize = 6\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case s := <-changes:
		if s.Editor.IndentSize != 6 {
			t.Errorf("IndentSize = %d, want 6", s.Editor.IndentSize)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stache.toml", "")

	errs := make(chan error, 4)
	w, err := NewWatcher(path, func(Settings) { t.Error("invalid file should not publish settings") },
		WithDebounce(10*time.Millisecond),
		WithErrorHandler(func(err error) { errs <- err }))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\nindentSize = 99\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case <-errs:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stache.toml", "")

	changes := make(chan Settings, 4)
	w, err := NewWatcher(path, func(s Settings) { changes <- s }, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "other.toml", "[editor]\nindentSize = 3\n")

	select {
	case s := <-changes:
		t.Errorf("unexpected reload: %+v", s)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stache.toml", "")

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if w.Path() != filepath.Clean(path) {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestWatcherCloseWaitsForRunningReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stache.toml", "")

	started := make(chan struct{}, 1)
	var running, finished atomic.Int32
	w, err := NewWatcher(path, func(Settings) {
		running.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(100 * time.Millisecond)
		finished.Add(1)
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("[editor]\nindentSize = 4\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if running.Load() != finished.Load() {
		t.Errorf("Close returned while a reload was running: %d started, %d finished", running.Load(), finished.Load())
	}

	after := running.Load()
	time.Sleep(50 * time.Millisecond)
	if running.Load() != after {
		t.Error("onChange ran after Close returned")
	}
}
