// Package settings provides the persisted theme and language preferences.
package settings

import (
	"fmt"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/locale"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid returns true if the theme is a known value.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Settings struct {
	Theme    Theme           `json:"theme"`
	Language locale.Language `json:"language"`
}

func Default() Settings {
	return Settings{
		Theme:    ThemeLight,
		Language: locale.Auto,
	}
}

func (s Settings) Validate() error {
	if !s.Theme.IsValid() {
		return apperr.Invalid("theme", fmt.Sprintf("invalid theme %q", s.Theme))
	}
	if !s.Language.IsValid() {
		return apperr.Invalid("language", fmt.Sprintf("invalid language %q", s.Language))
	}
	return nil
}

// Locale returns the concrete locale consumers should use.
func (s Settings) Locale() locale.Language {
	return s.Language.Resolve()
}

// OnChangeListener receives the new settings after every change.
//
// Contract: called outside the store's mutex. Listeners must not block.
type OnChangeListener interface {
	OnSettingsChange(s Settings)
}
