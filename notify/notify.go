// Package notify turns outcomes into short, dismissible notifications.
package notify

import (
	"errors"
	"time"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/assistant"
	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/locale"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

func Info(text string) Notification    { return Notification{Level: LevelInfo, Text: text} }
func Success(text string) Notification { return Notification{Level: LevelSuccess, Text: text} }
func Warning(text string) Notification { return Notification{Level: LevelWarning, Text: text} }
func Error(text string) Notification   { return Notification{Level: LevelError, Text: text} }

// Messages shown when a failure carries no backend detail.
var fallbackText = map[string]string{
	"login":    "Login failed. Please check your credentials.",
	"register": "Registration failed. Email may already be registered.",
	"reset":    "Password reset failed. Please check your security answers.",
	"nearby":   "Failed to fetch nearby hospitals. Please try again.",
}

// FromError maps an error to the notification the user should see. Chat
// failures use the localized table for lang.
func FromError(err error, lang locale.Language) Notification {
	var (
		verr    *apperr.ValidationError
		cerr    *apperr.UnsupportedCapabilityError
		authErr *auth.Error
		apiErr  *apperr.APIError
		netErr  *apperr.NetworkError
	)

	switch {
	case err == nil:
		return Notification{}
	case errors.As(err, &verr):
		return Warning(verr.Message)
	case errors.As(err, &cerr):
		return Warning(cerr.Error())
	case errors.Is(err, assistant.ErrSendInFlight):
		return Info("Please wait for the current reply")
	case apperr.IsWarning(err):
		return Warning("Your changes could not be saved and will be lost on exit")
	case errors.As(err, &authErr):
		return Error(apperr.Detail(err, fallbackText[authErr.Op]))
	case errors.As(err, &apiErr):
		return Error(withFallback(apiErr.Op, lang, apiErr.Detail))
	case errors.As(err, &netErr):
		return Error(withFallback(netErr.Op, lang, ""))
	default:
		return Error(err.Error())
	}
}

func withFallback(op string, lang locale.Language, detail string) string {
	if op == "chat" {
		return locale.Message(locale.ChatError, lang)
	}
	if detail != "" {
		return detail
	}
	if text, ok := fallbackText[op]; ok {
		return text
	}
	return "Something went wrong. Please try again."
}
