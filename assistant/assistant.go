// Package assistant coordinates a chat turn: it records the user's message,
// asks the backend, and records the reply or a localized fallback.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/logger"
	"github.com/aravindadityxa/nayamai/settings"
)

// MaxHospitals is the most results Nearby returns.
const MaxHospitals = 10

var ErrSendInFlight = errors.New("a message is already being sent")

type Backend interface {
	Chat(ctx context.Context, token, message, language string) (*api.ChatResponse, error)
	Nearby(ctx context.Context, lat, lon float64) ([]api.Hospital, error)
}

type Preferences interface {
	Get() settings.Settings
}

type TokenSource interface {
	Token() string
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator reports the user's position. Hosts without geolocation leave it
// unset.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// StaticLocator always reports the same position.
type StaticLocator Location

func (l StaticLocator) Locate(context.Context) (Location, error) {
	return Location(l), nil
}

// Transcriber turns speech into text for the given locale.
type Transcriber interface {
	Transcribe(ctx context.Context, tag language.Tag) (string, error)
}

type Reply struct {
	Message history.Message `json:"message"`
	// Language is the language the backend answered in.
	Language string `json:"language,omitempty"`
	// Degraded is set when Message is the fallback text.
	Degraded bool    `json:"degraded,omitempty"`
	Cause    error   `json:"-"`
	Warnings []error `json:"-"`
}

type Nearby struct {
	Location  Location       `json:"location"`
	Hospitals []api.Hospital `json:"hospitals"`
}

type Assistant struct {
	history     *history.Store
	prefs       Preferences
	tokens      TokenSource
	backend     Backend
	locator     Locator
	transcriber Transcriber

	sending atomic.Bool
}

type Option func(*Assistant)

func WithLocator(l Locator) Option {
	return func(a *Assistant) { a.locator = l }
}

func WithTranscriber(t Transcriber) Option {
	return func(a *Assistant) { a.transcriber = t }
}

func New(h *history.Store, prefs Preferences, tokens TokenSource, backend Backend, opts ...Option) *Assistant {
	a := &Assistant{
		history: h,
		prefs:   prefs,
		tokens:  tokens,
		backend: backend,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Send runs one chat turn. Backend failures do not return an error: the
// localized fallback is recorded and the reply is marked Degraded.
func (a *Assistant) Send(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, apperr.Invalid("message", "Please enter a message")
	}
	if !a.sending.CompareAndSwap(false, true) {
		return Reply{}, ErrSendInFlight
	}
	defer a.sending.Store(false)

	lang := a.prefs.Get().Language
	var reply Reply

	if _, err := a.history.Append(history.SenderUser, text, lang); err != nil {
		if !apperr.IsWarning(err) {
			return Reply{}, err
		}
		reply.Warnings = append(reply.Warnings, err)
	}

	requestLang := ""
	if lang != locale.Auto {
		requestLang = string(lang)
	}

	log := slog.With("message", logger.Truncate(text, 50), "language", lang)
	resp, err := a.backend.Chat(ctx, a.tokens.Token(), text, requestLang)

	content := ""
	if err != nil {
		log.Warn("chat request failed, using fallback", "error", err)
		reply.Degraded = true
		reply.Cause = err
		content = locale.Message(locale.ChatError, lang)
	} else {
		log.Debug("chat reply received", "replyLanguage", resp.Language)
		reply.Language = resp.Language
		content = resp.Response
	}

	msg, err := a.history.Append(history.SenderAssistant, content, lang)
	if err != nil {
		if !apperr.IsWarning(err) {
			return Reply{}, err
		}
		reply.Warnings = append(reply.Warnings, err)
	}
	reply.Message = msg
	return reply, nil
}

// Sending reports whether a Send is in flight.
func (a *Assistant) Sending() bool {
	return a.sending.Load()
}

// Greet records the localized greeting when the log is empty. It reports
// whether a greeting was added.
func (a *Assistant) Greet() (history.Message, bool, error) {
	lang := a.prefs.Get().Language
	return a.history.AppendIf(func(m []history.Message) bool {
		return len(m) == 0
	}, history.SenderAssistant, locale.Greeting(lang), lang)
}

// Regreet replaces a log that holds nothing but a greeting in another
// language with the greeting in the current language. The check and the
// swap happen atomically, so a message sent meanwhile is never dropped.
func (a *Assistant) Regreet() (bool, error) {
	lang := a.prefs.Get().Language
	_, replaced, err := a.history.ReplaceIf(func(m []history.Message) bool {
		return len(m) == 1 && m[0].Sender == history.SenderAssistant && m[0].Language != lang
	}, history.SenderAssistant, locale.Greeting(lang), lang)
	return replaced, err
}

// Nearby looks up hospitals around the user's position.
func (a *Assistant) Nearby(ctx context.Context) (Nearby, error) {
	if a.locator == nil {
		return Nearby{}, &apperr.UnsupportedCapabilityError{Capability: "Geolocation"}
	}

	loc, err := a.locator.Locate(ctx)
	if err != nil {
		return Nearby{}, err
	}
	return a.NearbyAt(ctx, loc)
}

// NearbyAt looks up hospitals around loc, for callers that locate the user
// themselves.
func (a *Assistant) NearbyAt(ctx context.Context, loc Location) (Nearby, error) {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return Nearby{}, apperr.Invalid("location", "Invalid location coordinates")
	}
	hospitals, err := a.backend.Nearby(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return Nearby{}, err
	}
	if len(hospitals) > MaxHospitals {
		hospitals = hospitals[:MaxHospitals]
	}
	return Nearby{Location: loc, Hospitals: hospitals}, nil
}

// Listen captures one utterance in the speech locale of the current
// language.
func (a *Assistant) Listen(ctx context.Context) (string, error) {
	if a.transcriber == nil {
		return "", &apperr.UnsupportedCapabilityError{Capability: "Speech recognition"}
	}
	return a.transcriber.Transcribe(ctx, locale.SpeechLocale(a.prefs.Get().Language))
}
