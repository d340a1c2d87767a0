package kv

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// FileStore keeps one JSON file per key under dataDir/state, with
// flock-based inter-process safety.
type FileStore struct {
	dir string
	mu  sync.RWMutex

	watcher    *fsnotify.Watcher
	timerMu    sync.Mutex
	timers     map[string]*time.Timer
	stopWatch  chan struct{}
	watchGroup sync.WaitGroup
}

var _ Watchable = (*FileStore)(nil)

func NewFileStore(dataDir string) (*FileStore, error) {
	dir := filepath.Join(dataDir, "state")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the key files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// A dedicated lock file is used because data files are replaced via rename,
// which changes their inode.
func (s *FileStore) lockPath() string {
	return filepath.Join(s.dir, ".lock")
}

func (s *FileStore) withLock(how int, fn func() error) error {
	lockF, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockF.Close()

	if err := syscall.Flock(int(lockF.Fd()), how); err != nil {
		return fmt.Errorf("flock: %w", err)
	}
	defer syscall.Flock(int(lockF.Fd()), syscall.LOCK_UN)

	return fn()
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	var found bool
	err := s.withLock(syscall.LOCK_SH, func() error {
		b, err := os.ReadFile(s.path(key))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		data, found = b, true
		return nil
	})
	return data, found, err
}

// Set writes the value atomically using write-temp-fsync-rename. Files are
// created with 0600 since they include the auth token.
func (s *FileStore) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(syscall.LOCK_EX, func() error {
		tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		tmpPath := tmp.Name()

		if err := tmp.Chmod(0600); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("chmod temp file: %w", err)
		}
		if _, err := tmp.Write(value); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write temp file: %w", err)
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("fsync temp file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("close temp file: %w", err)
		}

		if err := os.Rename(tmpPath, s.path(key)); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	})
}

func (s *FileStore) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(syscall.LOCK_EX, func() error {
		err := os.Remove(s.path(key))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	})
}

func (s *FileStore) Close() error {
	s.StopWatching()
	return nil
}

// --- fsnotify: detect writes from other processes ---

const reloadDebounce = 100 * time.Millisecond

// StartWatching calls onChange (debounced per key) whenever a key file is
// written, replaced or removed. Own writes are reported too; consumers
// compare against their in-memory state.
func (s *FileStore) StartWatching(onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}

	s.timerMu.Lock()
	s.watcher = watcher
	s.timers = make(map[string]*time.Timer)
	s.stopWatch = make(chan struct{})
	s.timerMu.Unlock()

	s.watchGroup.Add(1)
	go s.watchLoop(watcher, s.stopWatch, onChange)
	slog.Info("state store watching for external changes", "dir", s.dir)
	return nil
}

func (s *FileStore) StopWatching() {
	s.timerMu.Lock()
	watcher := s.watcher
	if watcher == nil {
		s.timerMu.Unlock()
		return
	}
	s.watcher = nil
	close(s.stopWatch)
	for _, timer := range s.timers {
		timer.Stop()
	}
	s.timers = nil
	s.timerMu.Unlock()

	watcher.Close()
	s.watchGroup.Wait()
}

func (s *FileStore) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}, onChange func(string)) {
	defer s.watchGroup.Done()
	for {
		select {
		case <-stop:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			key, ok := keyFromPath(event.Name)
			if !ok {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.scheduleReload(key, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("state store fsnotify error", "error", err)
		}
	}
}

func (s *FileStore) scheduleReload(key string, onChange func(string)) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timers == nil {
		return
	}
	if timer, exists := s.timers[key]; exists {
		timer.Stop()
	}
	s.timers[key] = time.AfterFunc(reloadDebounce, func() {
		s.timerMu.Lock()
		if s.timers == nil {
			s.timerMu.Unlock()
			return
		}
		delete(s.timers, key)
		s.timerMu.Unlock()

		onChange(key)
	})
}

func keyFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, fileExt)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
