package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		file.Close()
		sqlite.Close()
	})

	return map[string]Store{
		"file":   file,
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, found, err := store.Get(KeyTheme); err != nil || found {
				t.Fatalf("Get on empty store = found %v, err %v", found, err)
			}

			if err := store.Set(KeyTheme, []byte(`"dark"`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, found, err := store.Get(KeyTheme)
			if err != nil || !found {
				t.Fatalf("Get after Set = found %v, err %v", found, err)
			}
			if string(got) != `"dark"` {
				t.Errorf("got %s, want \"dark\"", got)
			}

			if err := store.Set(KeyTheme, []byte(`"light"`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, _, _ = store.Get(KeyTheme)
			if string(got) != `"light"` {
				t.Errorf("got %s after overwrite, want \"light\"", got)
			}

			if err := store.Delete(KeyTheme); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, found, _ := store.Get(KeyTheme); found {
				t.Error("expected key to be gone after Delete")
			}

			if err := store.Delete(KeyTheme); err != nil {
				t.Errorf("Delete of missing key should be a no-op, got %v", err)
			}
		})
	}
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", "dotted.key"} {
				if err := store.Set(key, []byte("1")); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store1, _ := NewFileStore(dir)
	store1.Set(KeyUserToken, []byte(`"tok"`))

	store2, _ := NewFileStore(dir)
	got, found, err := store2.Get(KeyUserToken)
	if err != nil || !found {
		t.Fatalf("Get = found %v, err %v", found, err)
	}
	if string(got) != `"tok"` {
		t.Errorf("got %s", got)
	}
}

func TestFileStore_TokenFilePermissions(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	if err := store.Set(KeyUserToken, []byte(`"secret"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(filepath.Join(store.Dir(), KeyUserToken+".json"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("got permissions %o, want 600", perm)
	}
}

func TestFileStore_WatchReportsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	changed := make(chan string, 4)
	if err := store.StartWatching(func(key string) {
		changed <- key
	}); err != nil {
		t.Fatalf("StartWatching: %v", err)
	}
	defer store.StopWatching()

	other, _ := NewFileStore(dir)
	if err := other.Set(KeyLanguage, []byte(`"ta"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	select {
	case key := <-changed:
		if key != KeyLanguage {
			t.Errorf("got change for %q, want %q", key, KeyLanguage)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestMemoryStore_SetFailure(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("disk full")
	store.SetFailure(boom)

	if err := store.Set(KeyChatHistory, []byte("[]")); !errors.Is(err, boom) {
		t.Errorf("Set error = %v, want %v", err, boom)
	}

	store.SetFailure(nil)
	if err := store.Set(KeyChatHistory, []byte("[]")); err != nil {
		t.Errorf("Set after clearing failure: %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("expected error for unknown backend")
	}
}
