package watch

import (
	"log/slog"
	"sync"

	"github.com/aravindadityxa/nayamai/kv"
)

// Reloader re-reads a store's durable state.
type Reloader interface {
	Reload() error
}

// FileWatcher reloads the owning store when another process changes one of
// its keys, so the CLI and a running bridge share state.
type FileWatcher struct {
	life   lifecycle
	source kv.Watchable

	mu     sync.RWMutex
	owners map[string]Reloader
}

var _ Watcher = (*FileWatcher)(nil)

// NewFileWatcher returns nil when store cannot report external changes.
func NewFileWatcher(store kv.Store) *FileWatcher {
	source, ok := store.(kv.Watchable)
	if !ok {
		return nil
	}
	return &FileWatcher{
		life:   newLifecycle(),
		source: source,
		owners: make(map[string]Reloader),
	}
}

// Route sends changes of keys to r.
func (w *FileWatcher) Route(r Reloader, keys ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, k := range keys {
		w.owners[k] = r
	}
}

func (w *FileWatcher) Start() error {
	if err := w.source.StartWatching(w.onKeyChange); err != nil {
		return err
	}
	slog.Info("FileWatcher started")
	return nil
}

func (w *FileWatcher) Stop() {
	w.life.stop()
	w.source.StopWatching()
	slog.Info("FileWatcher stopped")
}

func (w *FileWatcher) onKeyChange(key string) {
	if w.life.stopped() {
		return
	}

	w.mu.RLock()
	owner, ok := w.owners[key]
	w.mu.RUnlock()
	if !ok {
		return
	}

	if err := owner.Reload(); err != nil {
		slog.Warn("failed to reload after external change", "key", key, "error", err)
		return
	}
	slog.Debug("reloaded after external change", "key", key)
}
