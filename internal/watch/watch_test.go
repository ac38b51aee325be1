package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// writeUntil rewrites path until fired receives or the deadline passes.
// The watch is set up asynchronously, so early writes may go unseen.
func writeUntil(t *testing.T, path string, fired <-chan struct{}, deadline time.Duration) bool {
	t.Helper()
	timeout := time.After(deadline)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-fired:
			return true
		case <-timeout:
			return false
		case <-tick.C:
			if err := os.WriteFile(path, []byte("num_batches = 5\n"), 0644); err != nil {
				t.Fatalf("write %s: %v", path, err)
			}
		}
	}
}

func TestConfigWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("num_batches = 4\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fired := make(chan struct{}, 16)
	w := NewConfigWatcher(path, func(context.Context) { fired <- struct{}{} }, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if !writeUntil(t, path, fired, 5*time.Second) {
		t.Fatal("callback did not fire after config writes")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	fired := make(chan struct{}, 16)
	w := NewConfigWatcher(path, func(context.Context) { fired <- struct{}{} }, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	other := filepath.Join(dir, "batch1.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(other, []byte("[]"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-fired:
		t.Fatal("callback fired for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConfigWatcher_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.toml")
	w := NewConfigWatcher(path, func(context.Context) {})

	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() expected error for missing directory")
	}
}

func TestConfigWatcher_CallbacksDoNotOverlap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("num_batches = 4\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var running, maxRunning, calls atomic.Int32
	onChange := func(context.Context) {
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		calls.Add(1)
		time.Sleep(150 * time.Millisecond)
		running.Add(-1)
	}
	w := NewConfigWatcher(path, onChange, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		if err := os.WriteFile(path, []byte("num_batches = 5\n"), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		time.Sleep(60 * time.Millisecond)
	}

	if calls.Load() == 0 {
		t.Fatal("callback never fired")
	}
	if got := maxRunning.Load(); got != 1 {
		t.Errorf("max concurrent callbacks = %d, want 1", got)
	}
}
