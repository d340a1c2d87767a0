package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/apperr"
)

// DefaultQuestions are asked when the backend has no /forgot-password route.
var DefaultQuestions = []string{
	"What was your first pet's name?",
	"What city were you born in?",
}

// Reset is one password reset flow. Phase 1 (RequestQuestions) fixes the
// email; phase 2 (Submit) sends answers and the new password. The backend
// decides whether the answers are right.
type Reset struct {
	backend Backend

	mu        sync.Mutex
	email     string
	questions []string
}

// NewReset starts a reset flow in phase 1.
func (m *Manager) NewReset() *Reset {
	return &Reset{backend: m.backend}
}

func (r *Reset) RequestQuestions(ctx context.Context, email string) ([]string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &Error{Op: "reset", Err: apperr.Invalid("email", "Please enter your email")}
	}

	questions, err := r.backend.ForgotPassword(ctx, email)
	if err != nil {
		if !routeMissing(err) {
			return nil, &Error{Op: "reset", Err: err}
		}
		questions = nil
	}
	if len(questions) == 0 {
		questions = DefaultQuestions
	}

	r.mu.Lock()
	r.email = email
	r.questions = append([]string(nil), questions...)
	r.mu.Unlock()

	return questions, nil
}

// Email returns the address fixed by phase 1, or "".
func (r *Reset) Email() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.email
}

// Questions returns the questions fetched by phase 1.
func (r *Reset) Questions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.questions...)
}

// Submit validates locally, then sends the reset. No request is made when
// validation fails. A successful reset returns the flow to phase 1.
func (r *Reset) Submit(ctx context.Context, answers Answers, newPassword, confirmPassword string) error {
	email := r.Email()
	if err := validateSubmit(email, answers, newPassword, confirmPassword); err != nil {
		return &Error{Op: "reset", Err: err}
	}

	err := r.backend.ResetPassword(ctx, api.ResetPasswordRequest{
		Email: email,
		SecurityAnswers: api.SecurityAnswers{
			PetName:   strings.TrimSpace(answers.PetName),
			BirthCity: strings.TrimSpace(answers.BirthCity),
		},
		NewPassword: newPassword,
	})
	if err != nil {
		return &Error{Op: "reset", Err: err}
	}

	r.mu.Lock()
	r.email = ""
	r.questions = nil
	r.mu.Unlock()
	return nil
}

func validateSubmit(email string, answers Answers, newPassword, confirmPassword string) error {
	switch {
	case email == "":
		return apperr.Invalid("email", "Please request the security questions first")
	case strings.TrimSpace(answers.PetName) == "" || strings.TrimSpace(answers.BirthCity) == "":
		return apperr.Invalid("answers", "Please answer all security questions")
	case newPassword == "" || confirmPassword == "":
		return apperr.Invalid("password", "Please enter and confirm your new password")
	case len(newPassword) < MinPasswordLength:
		return apperr.Invalid("password", "Password must be at least 6 characters long")
	case newPassword != confirmPassword:
		return apperr.Invalid("confirm_password", "Passwords do not match")
	}
	return nil
}

// routeMissing reports whether err means the backend does not serve the
// route at all, as opposed to rejecting the request.
func routeMissing(err error) bool {
	var apiErr *apperr.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusMethodNotAllowed ||
			(apiErr.Status == http.StatusNotFound && apiErr.Detail == "Not Found")
	}
	var netErr *apperr.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Status == http.StatusNotFound || netErr.Status == http.StatusMethodNotAllowed
	}
	return false
}
