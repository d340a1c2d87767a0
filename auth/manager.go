// Package auth manages the client session: login, registration, logout and
// the two-phase password reset. Token and user are persisted together and
// cleared together.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/kv"
	"github.com/aravindadityxa/nayamai/locale"
)

const MinPasswordLength = 6

type Manager struct {
	kv      kv.Store
	backend Backend

	mu        sync.RWMutex
	session   Session
	listeners []OnChangeListener
}

func NewManager(store kv.Store, backend Backend) (*Manager, error) {
	m := &Manager{kv: store, backend: backend}

	session, err := m.load()
	if err != nil {
		return nil, err
	}
	m.session = session
	return m, nil
}

func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySession(m.session)
}

func (m *Manager) State() State {
	return m.Session().State()
}

func (m *Manager) Authenticated() bool {
	return m.State() == Authenticated
}

// Token returns the bearer token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// Login authenticates against the backend. Session state is only touched
// after a successful response; a returned PersistenceWarning still means the
// login succeeded.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Session, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return Session{}, &Error{Op: "login", Err: apperr.Invalid("email", "Please fill in all fields")}
	}

	resp, err := m.backend.Login(ctx, email, creds.Password)
	if err != nil {
		return Session{}, &Error{Op: "login", Err: err}
	}
	if resp.Token == "" {
		return Session{}, &Error{Op: "login", Err: errors.New("response carried no token")}
	}

	lang := creds.PreferredLanguage
	if lang == "" {
		lang = locale.Auto
	}
	next := Session{
		Token: resp.Token,
		User:  &User{Email: email, PreferredLanguage: lang},
	}

	m.mu.Lock()
	m.session = next
	listeners := m.copyListeners()
	m.mu.Unlock()

	err = m.save(next)
	slog.Info("logged in", "email", email)
	notify(listeners, next)
	return copySession(next), err
}

// Register creates an account. It never changes the session.
func (m *Manager) Register(ctx context.Context, email, password string, lang locale.Language) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return &Error{Op: "register", Err: apperr.Invalid("email", "Please fill in all fields")}
	}
	if len(password) < MinPasswordLength {
		return &Error{Op: "register", Err: apperr.Invalid("password", "Password must be at least 6 characters long")}
	}

	err := m.backend.Register(ctx, api.RegisterRequest{
		Email:             email,
		Password:          password,
		PreferredLanguage: string(lang.Resolve()),
	})
	if err != nil {
		return &Error{Op: "register", Err: err}
	}
	return nil
}

// Logout clears the session after confirm agrees. It returns false without
// asking when already anonymous.
func (m *Manager) Logout(confirm ConfirmFunc) (bool, error) {
	if !m.Authenticated() {
		return false, nil
	}
	if confirm == nil || !confirm(LogoutPrompt) {
		return false, nil
	}

	m.mu.Lock()
	m.session = Session{}
	listeners := m.copyListeners()
	m.mu.Unlock()

	err := m.clearStored()
	slog.Info("logged out")
	notify(listeners, Session{})
	return true, err
}

// Reload re-reads the stored session, notifying listeners if it changed.
func (m *Manager) Reload() error {
	session, err := m.load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.session.equal(session) {
		m.mu.Unlock()
		return nil
	}
	m.session = session
	listeners := m.copyListeners()
	m.mu.Unlock()

	notify(listeners, session)
	return nil
}

func (m *Manager) AddOnChangeListener(listener OnChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Caller must hold m.mu.
func (m *Manager) copyListeners() []OnChangeListener {
	out := make([]OnChangeListener, len(m.listeners))
	copy(out, m.listeners)
	return out
}

func notify(listeners []OnChangeListener, s Session) {
	for _, l := range listeners {
		l.OnSessionChange(copySession(s))
	}
}

func copySession(s Session) Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// load treats a stored session with only one of token and user as
// anonymous and removes the stray key.
func (m *Manager) load() (Session, error) {
	tokenData, hasToken, err := m.kv.Get(kv.KeyUserToken)
	if err != nil {
		return Session{}, fmt.Errorf("read token: %w", err)
	}
	userData, hasUser, err := m.kv.Get(kv.KeyUser)
	if err != nil {
		return Session{}, fmt.Errorf("read user: %w", err)
	}

	var s Session
	if hasToken {
		s.Token = decodeToken(tokenData)
	}
	if hasUser {
		var u User
		if err := json.Unmarshal(userData, &u); err != nil || u.Email == "" {
			slog.Warn("stored user is invalid, ignoring", "error", err)
		} else {
			s.User = &u
		}
	}

	if s.State() == Authenticated {
		return s, nil
	}
	if hasToken || hasUser {
		slog.Warn("stored session is incomplete, treating as logged out")
		if err := m.clearStored(); err != nil {
			slog.Warn("failed to remove incomplete session", "error", err)
		}
	}
	return Session{}, nil
}

// decodeToken accepts a JSON string or the raw token the browser widget
// stored.
func decodeToken(data []byte) string {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return strings.TrimSpace(string(data))
	}
	return token
}

func (m *Manager) save(s Session) error {
	var errs []error

	token, _ := json.Marshal(s.Token)
	if err := m.kv.Set(kv.KeyUserToken, token); err != nil {
		errs = append(errs, &apperr.PersistenceWarning{Key: kv.KeyUserToken, Err: err})
	}

	user, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	if err := m.kv.Set(kv.KeyUser, user); err != nil {
		errs = append(errs, &apperr.PersistenceWarning{Key: kv.KeyUser, Err: err})
	}
	return errors.Join(errs...)
}

func (m *Manager) clearStored() error {
	var errs []error
	for _, key := range []string{kv.KeyUserToken, kv.KeyUser} {
		if err := m.kv.Delete(key); err != nil {
			errs = append(errs, &apperr.PersistenceWarning{Key: key, Err: err})
		}
	}
	return errors.Join(errs...)
}
