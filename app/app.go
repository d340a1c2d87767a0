// Package app wires the client stores, the backend client and the change
// watchers into one value shared by the CLI, the bridge and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/assistant"
	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/config"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/kv"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/settings"
	"github.com/aravindadityxa/nayamai/watch"
)

const HistoryClearPrompt = "Are you sure you want to clear all chat history? This action cannot be undone."

// App owns every client store. Surfaces use the exported fields for reads
// and the App methods for operations that span stores.
type App struct {
	Store     kv.Store
	Client    *api.Client
	Settings  *settings.Store
	History   *history.Store
	Auth      *auth.Manager
	Assistant *assistant.Assistant
	State     *watch.StateWatcher

	files     *watch.FileWatcher
	regreetMu sync.Mutex
	startOnce sync.Once
	closeOnce sync.Once
}

type options struct {
	store      kv.Store
	locator    assistant.Locator
	location   *time.Location
	clientOpts []api.Option
}

type Option func(*options)

// WithStore uses store instead of opening one from the config.
func WithStore(store kv.Store) Option {
	return func(o *options) { o.store = store }
}

func WithClientOptions(opts ...api.Option) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, opts...) }
}

// WithLocator enables nearby-hospital lookups.
func WithLocator(l assistant.Locator) Option {
	return func(o *options) { o.locator = l }
}

// WithLocation sets the time zone used for day grouping.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// New opens the durable store and loads every client store from it.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		var err error
		store, err = kv.Open(cfg.Storage, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
		}
	}

	a, err := build(cfg, store, o)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func build(cfg *config.Config, store kv.Store, o options) (*App, error) {
	client := api.NewClient(cfg.BackendURL, o.clientOpts...)

	prefs, err := settings.NewStore(store)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var historyOpts []history.Option
	if o.location != nil {
		historyOpts = append(historyOpts, history.WithLocation(o.location))
	}
	log, err := history.NewStore(store, historyOpts...)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	sessions, err := auth.NewManager(store, client)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var assistantOpts []assistant.Option
	if o.locator != nil {
		assistantOpts = append(assistantOpts, assistant.WithLocator(o.locator))
	}

	a := &App{
		Store:     store,
		Client:    client,
		Settings:  prefs,
		History:   log,
		Auth:      sessions,
		Assistant: assistant.New(log, prefs, sessions, client, assistantOpts...),
		State:     watch.NewStateWatcher(prefs, log, sessions),
		files:     watch.NewFileWatcher(store),
	}
	if a.files != nil {
		a.files.Route(prefs, kv.KeyTheme, kv.KeyLanguage)
		a.files.Route(log, kv.KeyChatHistory)
		a.files.Route(sessions, kv.KeyUserToken, kv.KeyUser)
	}
	return a, nil
}

// Start runs the change watchers. Long-running surfaces call it; one-shot
// CLI commands do not need to.
func (a *App) Start() error {
	var err error
	a.startOnce.Do(func() {
		a.State.SetOnSettingsChange(func(settings.Settings) {
			if _, err := a.regreet(); err != nil {
				slog.Warn("failed to refresh greeting", "error", err)
			}
		})
		if err = a.State.Start(); err != nil {
			return
		}
		if a.files != nil {
			err = a.files.Start()
		}
	})
	return err
}

// Close stops the watchers and closes the durable store.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.State.Stop()
		if a.files != nil {
			a.files.Stop()
		}
		err = a.Store.Close()
	})
	return err
}

// Language returns the current language preference.
func (a *App) Language() locale.Language {
	return a.Settings.Get().Language
}

// SetLanguage stores lang and swaps a lone greeting for one in lang.
func (a *App) SetLanguage(lang locale.Language) error {
	err := a.Settings.SetLanguage(lang)
	if err != nil && !apperr.IsWarning(err) {
		return err
	}
	_, regreetErr := a.regreet()
	return errors.Join(err, regreetErr)
}

func (a *App) regreet() (bool, error) {
	a.regreetMu.Lock()
	defer a.regreetMu.Unlock()
	return a.Assistant.Regreet()
}

// Login signs in and switches to the language picked on the login form.
func (a *App) Login(ctx context.Context, creds auth.Credentials) (auth.Session, error) {
	session, err := a.Auth.Login(ctx, creds)
	if err != nil && !apperr.IsWarning(err) {
		return auth.Session{}, err
	}

	lang := creds.PreferredLanguage
	if lang != "" && lang != a.Language() {
		err = errors.Join(err, a.SetLanguage(lang))
	}
	return session, err
}

// ClearChat empties the conversation after confirmation and starts over
// with the greeting.
func (a *App) ClearChat(confirm auth.ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(locale.Message(locale.ClearConfirm, a.Language())) {
		return false, nil
	}
	clearErr := a.History.Clear()
	if clearErr != nil && !apperr.IsWarning(clearErr) {
		return false, clearErr
	}
	_, _, err := a.Assistant.Greet()
	return true, errors.Join(clearErr, err)
}

// ClearHistory empties the log after confirmation without greeting again.
func (a *App) ClearHistory(confirm auth.ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(HistoryClearPrompt) {
		return false, nil
	}
	err := a.History.Clear()
	if err != nil && !apperr.IsWarning(err) {
		return false, err
	}
	return true, err
}

// Export returns the export document, refusing an empty log.
func (a *App) Export() (history.Export, error) {
	if a.History.Len() == 0 {
		return history.Export{}, apperr.Invalid("history", "No chat history to export")
	}
	return a.History.Export(), nil
}

// RemoteHistory fetches the server-side history of the signed-in user.
func (a *App) RemoteHistory(ctx context.Context) ([]api.RemoteEntry, error) {
	token := a.Auth.Token()
	if token == "" {
		return nil, auth.ErrNotAuthenticated
	}
	return a.Client.RemoteHistory(ctx, token)
}

// ClearRemoteHistory deletes the server-side history of the signed-in user.
func (a *App) ClearRemoteHistory(ctx context.Context) error {
	token := a.Auth.Token()
	if token == "" {
		return auth.ErrNotAuthenticated
	}
	return a.Client.ClearRemoteHistory(ctx, token)
}
