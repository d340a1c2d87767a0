package watch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aravindadityxa/nayamai/kv"
)

type countingReloader struct {
	n atomic.Int32
}

func (r *countingReloader) Reload() error {
	r.n.Add(1)
	return nil
}

func TestNewFileWatcher_NilForUnwatchableStore(t *testing.T) {
	if w := NewFileWatcher(kv.NewMemoryStore()); w != nil {
		t.Error("expected nil watcher for memory store")
	}
}

func TestFileWatcher_RoutesExternalChanges(t *testing.T) {
	dir := t.TempDir()
	store, err := kv.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	w := NewFileWatcher(store)
	if w == nil {
		t.Fatal("expected watcher for file store")
	}
	prefs, log := &countingReloader{}, &countingReloader{}
	w.Route(prefs, kv.KeyTheme, kv.KeyLanguage)
	w.Route(log, kv.KeyChatHistory)

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	other, _ := kv.NewFileStore(dir)
	other.Set(kv.KeyTheme, []byte(`"dark"`))

	deadline := time.Now().Add(2 * time.Second)
	for prefs.n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if prefs.n.Load() == 0 {
		t.Fatal("expected preference reload")
	}
	if log.n.Load() != 0 {
		t.Error("history should not reload for a theme change")
	}
}
