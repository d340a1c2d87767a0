package auth

import (
	"context"
	"errors"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/locale"
)

type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

type User struct {
	Email             string          `json:"email"`
	PreferredLanguage locale.Language `json:"preferred_language"`
}

// Session holds the token and user together; both are set or neither is.
type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

func (s Session) State() State {
	if s.Token != "" && s.User != nil {
		return Authenticated
	}
	return Anonymous
}

func (s Session) equal(o Session) bool {
	if s.Token != o.Token || (s.User == nil) != (o.User == nil) {
		return false
	}
	return s.User == nil || *s.User == *o.User
}

type Credentials struct {
	Email             string
	Password          string
	PreferredLanguage locale.Language
}

type Answers struct {
	PetName   string `json:"pet_name"`
	BirthCity string `json:"birth_city"`
}

// ConfirmFunc asks the user to confirm prompt. A nil ConfirmFunc declines.
type ConfirmFunc func(prompt string) bool

const LogoutPrompt = "Are you sure you want to logout?"

// Backend is the subset of the API client the session manager needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	ForgotPassword(ctx context.Context, email string) ([]string, error)
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error
}

// OnChangeListener is called after the session changes, outside the lock.
type OnChangeListener interface {
	OnSessionChange(s Session)
}

// Error is returned by every failed session operation. Its message is the
// backend detail when there is one, otherwise a generic message for Op.
type Error struct {
	Op  string
	Err error
}

var genericMessages = map[string]string{
	"login":    "Login failed",
	"register": "Registration failed",
	"reset":    "Password reset failed",
}

func (e *Error) Error() string {
	var verr *apperr.ValidationError
	if errors.As(e.Err, &verr) {
		return verr.Message
	}
	return apperr.Detail(e.Err, genericMessages[e.Op])
}

func (e *Error) Unwrap() error { return e.Err }

var ErrNotAuthenticated = errors.New("not logged in")
