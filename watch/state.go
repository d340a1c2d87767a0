package watch

import (
	"log/slog"
	"sync"

	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/settings"
)

const (
	MethodSettingsChanged = "settings.changed"
	MethodHistoryChanged  = "history.changed"
	MethodSessionChanged  = "session.changed"
)

// SessionView is the session as shown to subscribers. The token is never
// broadcast.
type SessionView struct {
	State auth.State `json:"state"`
	User  *auth.User `json:"user,omitempty"`
}

func ViewSession(s auth.Session) SessionView {
	return SessionView{State: s.State(), User: s.User}
}

// Snapshot is the state a new subscriber starts from.
type Snapshot struct {
	Settings     settings.Settings `json:"settings"`
	Session      SessionView       `json:"session"`
	MessageCount int               `json:"messageCount"`
}

type stateEvent struct {
	settings *settings.Settings
	history  *history.Event
	session  *auth.Session
}

// StateWatcher relays changes of the settings, history and session stores
// to subscribers. Store callbacks only enqueue; delivery happens on the
// event loop so store locks are never held during network I/O.
type StateWatcher struct {
	life     lifecycle
	hub      *Hub
	settings *settings.Store
	history  *history.Store
	auth     *auth.Manager
	eventCh  chan stateEvent

	onChangeMu       sync.RWMutex
	onSettingsChange func(settings.Settings)
}

var (
	_ Watcher                   = (*StateWatcher)(nil)
	_ settings.OnChangeListener = (*StateWatcher)(nil)
	_ history.OnChangeListener  = (*StateWatcher)(nil)
	_ auth.OnChangeListener     = (*StateWatcher)(nil)
)

func NewStateWatcher(s *settings.Store, h *history.Store, a *auth.Manager) *StateWatcher {
	w := &StateWatcher{
		life:     newLifecycle(),
		hub:      NewHub("st"),
		settings: s,
		history:  h,
		auth:     a,
		eventCh:  make(chan stateEvent, 64),
	}
	s.AddOnChangeListener(w)
	h.AddOnChangeListener(w)
	a.AddOnChangeListener(w)
	return w
}

func (w *StateWatcher) Start() error {
	go w.eventLoop()
	slog.Info("StateWatcher started")
	return nil
}

func (w *StateWatcher) Stop() {
	w.life.stop()
	slog.Info("StateWatcher stopped")
}

// SetOnSettingsChange sets a callback run on the event loop after settings
// change.
func (w *StateWatcher) SetOnSettingsChange(fn func(settings.Settings)) {
	w.onChangeMu.Lock()
	defer w.onChangeMu.Unlock()
	w.onSettingsChange = fn
}

// Subscribe registers a subscriber and returns its ID with the current
// state.
func (w *StateWatcher) Subscribe(notifier Notifier) (string, Snapshot) {
	id := w.hub.Add(notifier)
	return id, Snapshot{
		Settings:     w.settings.Get(),
		Session:      ViewSession(w.auth.Session()),
		MessageCount: w.history.Len(),
	}
}

// Unsubscribe drops the subscription id and reports whether it existed.
func (w *StateWatcher) Unsubscribe(id string) bool {
	return w.hub.Remove(id)
}

// RemoveByNotifier drops every subscription of a closed connection.
func (w *StateWatcher) RemoveByNotifier(n Notifier) int {
	return w.hub.RemoveNotifier(n)
}

func (w *StateWatcher) HasSubscriptions() bool {
	return w.hub.Len() > 0
}

func (w *StateWatcher) OnSettingsChange(s settings.Settings) {
	w.enqueue(stateEvent{settings: &s})
}

func (w *StateWatcher) OnHistoryChange(e history.Event) {
	w.enqueue(stateEvent{history: &e})
}

func (w *StateWatcher) OnSessionChange(s auth.Session) {
	w.enqueue(stateEvent{session: &s})
}

// enqueue is called with store locks released but from the mutating
// goroutine, so it must not block.
func (w *StateWatcher) enqueue(e stateEvent) {
	if w.life.stopped() {
		return
	}

	select {
	case w.eventCh <- e:
	default:
		slog.Warn("state change event dropped (buffer full)")
	}
}

func (w *StateWatcher) eventLoop() {
	for {
		select {
		case <-w.life.done():
			return
		case e := <-w.eventCh:
			w.dispatch(e)
		}
	}
}

func (w *StateWatcher) dispatch(e stateEvent) {
	switch {
	case e.settings != nil:
		w.onChangeMu.RLock()
		fn := w.onSettingsChange
		w.onChangeMu.RUnlock()
		if fn != nil {
			fn(*e.settings)
		}
		w.hub.Broadcast(w.life.ctx, MethodSettingsChanged, func(id string) any {
			return settingsChangedParams{ID: id, Settings: *e.settings}
		})

	case e.history != nil:
		w.hub.Broadcast(w.life.ctx, MethodHistoryChanged, func(id string) any {
			return historyChangedParams{
				ID:      id,
				Kind:    e.history.Kind,
				Message: e.history.Message,
				Total:   e.history.Len,
			}
		})

	case e.session != nil:
		w.hub.Broadcast(w.life.ctx, MethodSessionChanged, func(id string) any {
			return sessionChangedParams{ID: id, Session: ViewSession(*e.session)}
		})
	}
}

type settingsChangedParams struct {
	ID       string            `json:"id"`
	Settings settings.Settings `json:"settings"`
}

type historyChangedParams struct {
	ID      string            `json:"id"`
	Kind    history.EventKind `json:"kind"`
	Message *history.Message  `json:"message,omitempty"`
	Total   int               `json:"total"`
}

type sessionChangedParams struct {
	ID      string      `json:"id"`
	Session SessionView `json:"session"`
}
