package history

import (
	"encoding/json"
	"time"

	"github.com/aravindadityxa/nayamai/locale"
)

type Sender string

const (
	SenderUser Sender = "user"
	// SenderAssistant is stored as "ai", the value the browser widget wrote.
	SenderAssistant Sender = "ai"
)

func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderAssistant
}

func (s *Sender) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == "assistant" {
		v = string(SenderAssistant)
	}
	*s = Sender(v)
	return nil
}

// Message is one entry of the chat log. It is never modified after Append.
type Message struct {
	ID        string          `json:"id,omitempty"`
	Sender    Sender          `json:"sender"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Language  locale.Language `json:"language"`
}

func (m Message) equal(o Message) bool {
	return m.ID == o.ID &&
		m.Sender == o.Sender &&
		m.Content == o.Content &&
		m.Timestamp.Equal(o.Timestamp) &&
		m.Language == o.Language
}

// DayGroup is the run of messages that fall on one calendar day.
type DayGroup struct {
	// Key is the day formatted as 2006-01-02.
	Key      string    `json:"day"`
	Date     time.Time `json:"date"`
	Messages []Message `json:"messages"`
}

// Export is the snapshot written by the export action.
type Export struct {
	ExportedAt    time.Time `json:"exportedAt"`
	TotalMessages int       `json:"totalMessages"`
	ChatHistory   []Message `json:"chatHistory"`
}

type EventKind string

const (
	EventAppend EventKind = "append"
	EventClear  EventKind = "clear"
	EventReload EventKind = "reload"
)

type Event struct {
	Kind EventKind
	// Message is set for EventAppend.
	Message *Message
	Len     int
}

// OnChangeListener is called after the log changes, outside the store lock.
// Implementations must not block.
type OnChangeListener interface {
	OnHistoryChange(e Event)
}
