// Package apperr defines the error taxonomy shared by every part of the
// client. None of these errors are fatal to the application; surfaces turn
// them into transient notifications.
package apperr

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure, or a non-2xx response without a
// parseable body.
type NetworkError struct {
	Op     string
	Status int // 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response that carried a detail message.
type APIError struct {
	Op     string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// ValidationError reports a local precondition failure. It is always
// returned before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UnsupportedCapabilityError reports a host capability (speech,
// geolocation) that is not available.
type UnsupportedCapabilityError struct {
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("%s is not supported in this environment", e.Capability)
}

// PersistenceWarning reports a failed durable write. In-memory state stays
// authoritative for the rest of the process.
type PersistenceWarning struct {
	Key string
	Err error
}

func (e *PersistenceWarning) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceWarning) Unwrap() error { return e.Err }

// IsWarning reports whether err consists only of persistence warnings.
func IsWarning(err error) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !IsWarning(e) {
				return false
			}
		}
		return true
	}
	var w *PersistenceWarning
	return errors.As(err, &w)
}

// Detail returns the user-facing message carried by an APIError anywhere in
// err's chain, or fallback.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
