// Package locale holds the supported interface languages and the static
// string tables the rest of the client consults.
package locale

import (
	"golang.org/x/text/language"
)

// Language is a user-selectable interface language.
type Language string

const (
	Auto      Language = "auto"
	English   Language = "en"
	Tamil     Language = "ta"
	Hindi     Language = "hi"
	Telugu    Language = "te"
	Malayalam Language = "ml"
	Kannada   Language = "kn"
)

// Fallback is used wherever a concrete locale is required and the
// preference is Auto.
const Fallback = English

// All lists the concrete languages in display order.
var All = []Language{English, Tamil, Hindi, Telugu, Malayalam, Kannada}

// IsValid returns true for Auto and every concrete language.
func (l Language) IsValid() bool {
	switch l {
	case Auto, English, Tamil, Hindi, Telugu, Malayalam, Kannada:
		return true
	default:
		return false
	}
}

// Resolve maps Auto (and anything unknown) to Fallback.
func (l Language) Resolve() Language {
	if l == Auto || !l.IsValid() {
		return Fallback
	}
	return l
}

// Strings is the fixed-shape record of translated text for one locale.
type Strings struct {
	Greeting     string
	ChatError    string
	ClearConfirm string

	Placeholder       string
	Nearby            string
	Clear             string
	Login             string
	Welcome           string
	Email             string
	Password          string
	Register          string
	LoginTab          string
	RegisterTab       string
	HospitalsTitle    string
	YourLocation      string
	ChatHistory       string
	Logout            string
	ResetPassword     string
	ForgotPassword    string
	BackToLogin       string
	ClearAllHistory   string
	ExportHistory     string
	NoChatHistory     string
	SecurityQuestion1 string
	SecurityQuestion2 string
	NewPassword       string
	ConfirmPassword   string
}

// For returns the string table for l after resolution.
func For(l Language) Strings {
	if s, ok := tables[l.Resolve()]; ok {
		return s
	}
	return tables[Fallback]
}

// Greeting returns the assistant's opening line.
func Greeting(l Language) string {
	return For(l).Greeting
}

// MessageKey names a localized user-facing message.
type MessageKey string

const (
	ChatError    MessageKey = "chat_error"
	ClearConfirm MessageKey = "clear_confirm"
)

// Message looks up a localized message. Unknown keys return "".
func Message(key MessageKey, l Language) string {
	s := For(l)
	switch key {
	case ChatError:
		return s.ChatError
	case ClearConfirm:
		return s.ClearConfirm
	default:
		return ""
	}
}

var speechTags = map[Language]language.Tag{
	English:   language.MustParse("en-IN"),
	Tamil:     language.MustParse("ta-IN"),
	Hindi:     language.MustParse("hi-IN"),
	Telugu:    language.MustParse("te-IN"),
	Malayalam: language.MustParse("ml-IN"),
	Kannada:   language.MustParse("kn-IN"),
}

// SpeechLocale returns the BCP 47 tag handed to speech recognition and
// synthesis engines.
func SpeechLocale(l Language) language.Tag {
	if tag, ok := speechTags[l.Resolve()]; ok {
		return tag
	}
	return speechTags[Fallback]
}

// Name returns the language's own name for pickers.
func (l Language) Name() string {
	switch l {
	case English:
		return "English"
	case Tamil:
		return "தமிழ்"
	case Hindi:
		return "हिन्दी"
	case Telugu:
		return "తెలుగు"
	case Malayalam:
		return "മലയാളം"
	case Kannada:
		return "ಕನ್ನಡ"
	case Auto:
		return "Auto"
	default:
		return string(l)
	}
}
