package settings

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/kv"
	"github.com/aravindadityxa/nayamai/locale"
)

type Store struct {
	kv kv.Store

	// writeMu orders each change with its persistence and notification.
	writeMu sync.Mutex

	dataMu    sync.RWMutex
	data      Settings
	listeners []OnChangeListener
}

// NewStore loads existing preferences or uses defaults. Each key falls back
// to its default independently when missing, corrupted or invalid.
func NewStore(store kv.Store) (*Store, error) {
	s := &Store{
		kv:   store,
		data: Default(),
	}

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	s.data = data

	return s, nil
}

func (s *Store) Get() Settings {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data
}

func (s *Store) SetTheme(theme Theme) error {
	_, err := s.modify(func(next *Settings) { next.Theme = theme })
	return err
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Store) ToggleTheme() (Theme, error) {
	next, err := s.modify(func(next *Settings) { next.Theme = next.Theme.Toggled() })
	return next.Theme, err
}

func (s *Store) SetLanguage(lang locale.Language) error {
	_, err := s.modify(func(next *Settings) { next.Language = lang })
	return err
}

// Update validates and applies settings. The in-memory value is updated even
// if persisting fails; the failure is returned as a PersistenceWarning.
func (s *Store) Update(settings Settings) error {
	_, err := s.modify(func(next *Settings) { *next = settings })
	return err
}

// modify applies change to the current settings. Concurrent changes to
// different fields never undo each other.
func (s *Store) modify(change func(*Settings)) (Settings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.Get()
	next := prev
	change(&next)
	if err := next.Validate(); err != nil {
		return prev, err
	}
	if prev == next {
		return next, nil
	}

	s.dataMu.Lock()
	s.data = next
	listeners := s.copyListeners()
	s.dataMu.Unlock()

	var errs []error
	if prev.Theme != next.Theme {
		errs = append(errs, s.save(kv.KeyTheme, string(next.Theme)))
	}
	if prev.Language != next.Language {
		errs = append(errs, s.save(kv.KeyLanguage, string(next.Language)))
	}

	notify(listeners, next)
	return next, errors.Join(errs...)
}

// Reload re-reads durable state, notifying listeners if it changed.
func (s *Store) Reload() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	s.dataMu.Lock()
	if s.data == data {
		s.dataMu.Unlock()
		return nil
	}
	s.data = data
	listeners := s.copyListeners()
	s.dataMu.Unlock()

	notify(listeners, data)
	return nil
}

// AddOnChangeListener registers listener. Listeners are called in change
// order and must not write to the store.
func (s *Store) AddOnChangeListener(listener OnChangeListener) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Caller must hold s.dataMu.
func (s *Store) copyListeners() []OnChangeListener {
	out := make([]OnChangeListener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func notify(listeners []OnChangeListener, settings Settings) {
	for _, l := range listeners {
		l.OnSettingsChange(settings)
	}
}

func (s *Store) load() (Settings, error) {
	settings := Default()

	theme, found, err := s.readString(kv.KeyTheme)
	if err != nil {
		return Settings{}, err
	}
	if found && Theme(theme).IsValid() {
		settings.Theme = Theme(theme)
	}

	lang, found, err := s.readString(kv.KeyLanguage)
	if err != nil {
		return Settings{}, err
	}
	if found && locale.Language(lang).IsValid() {
		settings.Language = locale.Language(lang)
	}

	return settings, nil
}

// readString accepts both a JSON string and a bare value, which is how the
// browser widget wrote these keys.
func (s *Store) readString(key string) (string, bool, error) {
	data, found, err := s.kv.Get(key)
	if err != nil || !found {
		return "", false, err
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data), true, nil
	}
	return v, true, nil
}

func (s *Store) save(key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.kv.Set(key, data); err != nil {
		return &apperr.PersistenceWarning{Key: key, Err: err}
	}
	return nil
}
