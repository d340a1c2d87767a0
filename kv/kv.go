// Package kv provides the durable key/value storage that backs every client
// store. Each key is independently readable and writable; a missing key
// means "use the default".
package kv

import (
	"errors"
	"fmt"
	"strings"
)

// Keys used by the client. Values are JSON documents.
const (
	KeyTheme       = "theme"
	KeyLanguage    = "language"
	KeyChatHistory = "chatHistory"
	KeyUserToken   = "userToken"
	KeyUser        = "user"

	// KeyChatHistoryCorrupt holds a chat log that could not be decoded.
	KeyChatHistoryCorrupt = "chatHistoryCorrupt"
)

var ErrInvalidKey = errors.New("invalid key")

// Store is a durable key/value store.
type Store interface {
	// Get returns (value, found, error).
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	// Delete is a no-op for a missing key.
	Delete(key string) error
	Close() error
}

// Watchable is implemented by stores that can report writes made by other
// processes.
type Watchable interface {
	StartWatching(onChange func(key string)) error
	StopWatching()
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates the store for backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dataDir)
	case BackendSQLite:
		return NewSQLiteStore(SQLitePath(dataDir))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
