package mcp

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/notify"
)

type ErrorCode string

const (
	ErrNotFound    ErrorCode = "not_found"
	ErrValidation  ErrorCode = "validation"
	ErrUnsupported ErrorCode = "unsupported"
	ErrBackend     ErrorCode = "backend"
	ErrInternal    ErrorCode = "internal"
)

type ToolError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResult encodes e as the tool result text, falling back to the bare
// message when Details cannot be encoded.
func (e ToolError) ToResult() *mcp.CallToolResult {
	data, err := json.Marshal(e)
	if err != nil {
		return mcp.NewToolResultError(string(e.Code) + ": " + e.Message)
	}
	return mcp.NewToolResultError(string(data))
}

func NotFound(resource, id string) *mcp.CallToolResult {
	return ToolError{
		Code:    ErrNotFound,
		Message: resource + " not found",
		Details: map[string]any{resource: id},
	}.ToResult()
}

func ValidationError(msg string) *mcp.CallToolResult {
	return ToolError{
		Code:    ErrValidation,
		Message: msg,
	}.ToResult()
}

// FromError classifies an operation failure and words it the way the chat
// widget would.
func FromError(err error, lang locale.Language) *mcp.CallToolResult {
	var (
		verr   *apperr.ValidationError
		cerr   *apperr.UnsupportedCapabilityError
		apiErr *apperr.APIError
		netErr *apperr.NetworkError
	)

	code := ErrInternal
	switch {
	case errors.As(err, &verr):
		code = ErrValidation
	case errors.As(err, &cerr):
		code = ErrUnsupported
	case errors.As(err, &apiErr), errors.As(err, &netErr):
		code = ErrBackend
	}

	return ToolError{
		Code:    code,
		Message: notify.FromError(err, lang).Text,
	}.ToResult()
}
