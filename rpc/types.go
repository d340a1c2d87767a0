// Package rpc defines JSON-RPC 2.0 wire format types for WebSocket communication.
// These types represent the params and result structures for all RPC methods.
package rpc

import (
	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/settings"
	"github.com/aravindadityxa/nayamai/watch"
)

// Client → Server

type AuthParams struct {
	Token string `json:"token"`
}

type AuthResult struct {
	Version string `json:"version"`
	Title   string `json:"title"`
}

// Chat namespace

type ChatSendParams struct {
	Message string `json:"message"`
}

type ChatSendResult struct {
	Message  history.Message `json:"message"`
	Language string          `json:"language,omitempty"`
	Degraded bool            `json:"degraded"`
	// Error is the user-facing reason for a degraded reply.
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type ChatGreetResult struct {
	Message *history.Message `json:"message,omitempty"`
	Added   bool             `json:"added"`
}

// History namespace

type HistoryListResult struct {
	Messages []history.Message `json:"messages"`
}

type HistoryGroupsResult struct {
	Groups []HistoryGroup `json:"groups"`
}

// HistoryGroup is one day in the history browser.
type HistoryGroup struct {
	Day     string `json:"day"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Preview string `json:"preview"`
}

type HistoryDayParams struct {
	Day string `json:"day"`
}

type HistoryExportResult struct {
	Filename string         `json:"filename"`
	Export   history.Export `json:"export"`
}

// ConfirmParams carries the user's answer to a confirmation prompt.
type ConfirmParams struct {
	Confirmed bool `json:"confirmed"`
}

type ConfirmResult struct {
	Done     bool     `json:"done"`
	Warnings []string `json:"warnings,omitempty"`
}

// Settings namespace

type SettingsUpdateParams struct {
	Theme    *settings.Theme  `json:"theme,omitempty"`
	Language *locale.Language `json:"language,omitempty"`
}

// Session namespace

type SessionLoginParams struct {
	Email             string          `json:"email"`
	Password          string          `json:"password"`
	PreferredLanguage locale.Language `json:"preferred_language,omitempty"`
}

type SessionRegisterParams struct {
	Email             string          `json:"email"`
	Password          string          `json:"password"`
	PreferredLanguage locale.Language `json:"preferred_language,omitempty"`
}

type SessionResetQuestionsParams struct {
	Email string `json:"email"`
}

type SessionResetQuestionsResult struct {
	Questions []string `json:"questions"`
}

type SessionResetSubmitParams struct {
	Answers         auth.Answers `json:"answers"`
	NewPassword     string       `json:"new_password"`
	ConfirmPassword string       `json:"confirm_password"`
}

// Hospitals namespace

type HospitalsNearbyParams struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type HospitalsNearbyResult struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Hospitals []api.Hospital `json:"hospitals"`
}

// State namespace

type StateSubscribeResult struct {
	ID       string         `json:"id"`
	Snapshot watch.Snapshot `json:"snapshot"`
}

type StateUnsubscribeParams struct {
	ID string `json:"id"`
}
