package kv

import "sync"

// MemoryStore is a non-durable Store, used for ephemeral runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	fail error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		return s.fail
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		return s.fail
	}
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// SetFailure makes subsequent writes fail with err (nil restores them).
func (s *MemoryStore) SetFailure(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}
