// Package history owns the local chat log: an append-only, chronologically
// ordered list of messages persisted under the chatHistory key.
package history

import (
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/kv"
	"github.com/aravindadityxa/nayamai/locale"
)

const dayLayout = "2006-01-02"

type Store struct {
	kv  kv.Store
	now func() time.Time
	loc *time.Location

	// writeMu orders mutations with their persistence and notification,
	// so the durable log never lags behind a later change.
	writeMu sync.Mutex

	mu        sync.RWMutex
	messages  []Message
	listeners []OnChangeListener
}

type Option func(*Store)

// WithClock overrides the clock used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the location whose calendar days GroupByDay uses.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

func NewStore(store kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		kv:  store,
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	messages, err := s.load()
	if err != nil {
		return nil, err
	}
	s.messages = messages
	return s, nil
}

// Append stamps and appends a message, then persists the full log. On a
// persistence failure the message is still returned and kept in memory.
func (s *Store) Append(sender Sender, content string, lang locale.Language) (Message, error) {
	msg, _, err := s.AppendIf(nil, sender, content, lang)
	return msg, err
}

// AppendIf appends like Append when cond, evaluated on the current log under
// the write lock, holds. A nil cond always holds.
func (s *Store) AppendIf(cond func([]Message) bool, sender Sender, content string, lang locale.Language) (Message, bool, error) {
	if !sender.IsValid() {
		return Message{}, false, apperr.Invalid("sender", fmt.Sprintf("invalid sender %q", sender))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if cond != nil && !cond(s.messages) {
		s.mu.Unlock()
		return Message{}, false, nil
	}
	msg := s.newMessage(sender, content, lang)
	s.messages = append(s.messages, msg)
	snapshot := slices.Clone(s.messages)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	err := s.save(snapshot)
	notify(listeners, Event{Kind: EventAppend, Message: &msg, Len: len(snapshot)})
	return msg, true, err
}

// ReplaceIf swaps the whole log for a single new message when cond,
// evaluated on the current log under the write lock, holds.
func (s *Store) ReplaceIf(cond func([]Message) bool, sender Sender, content string, lang locale.Language) (Message, bool, error) {
	if !sender.IsValid() {
		return Message{}, false, apperr.Invalid("sender", fmt.Sprintf("invalid sender %q", sender))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !cond(s.messages) {
		s.mu.Unlock()
		return Message{}, false, nil
	}
	msg := s.newMessage(sender, content, lang)
	s.messages = []Message{msg}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	err := s.save([]Message{msg})
	notify(listeners, Event{Kind: EventClear})
	notify(listeners, Event{Kind: EventAppend, Message: &msg, Len: 1})
	return msg, true, err
}

// Clear empties the log and removes the durable key. Clearing an empty log
// is a no-op apart from the delete.
func (s *Store) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	wasEmpty := len(s.messages) == 0
	s.messages = nil
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	var err error
	if derr := s.kv.Delete(kv.KeyChatHistory); derr != nil {
		err = &apperr.PersistenceWarning{Key: kv.KeyChatHistory, Err: derr}
	}
	if !wasEmpty {
		notify(listeners, Event{Kind: EventClear})
	}
	return err
}

func (s *Store) newMessage(sender Sender, content string, lang locale.Language) Message {
	return Message{
		ID:        newID(),
		Sender:    sender,
		Content:   content,
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
		Language:  lang,
	}
}

func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// GroupByDay yields one group per calendar day in first-seen order. The log
// is snapshotted when iteration starts.
func (s *Store) GroupByDay() iter.Seq[DayGroup] {
	return func(yield func(DayGroup) bool) {
		messages := s.Messages()

		var order []string
		index := make(map[string][]int)
		for i, m := range messages {
			key := m.Timestamp.In(s.loc).Format(dayLayout)
			if _, seen := index[key]; !seen {
				order = append(order, key)
			}
			index[key] = append(index[key], i)
		}

		for _, key := range order {
			idx := index[key]
			group := DayGroup{
				Key:      key,
				Date:     startOfDay(messages[idx[0]].Timestamp.In(s.loc)),
				Messages: make([]Message, 0, len(idx)),
			}
			for _, i := range idx {
				group.Messages = append(group.Messages, messages[i])
			}
			if !yield(group) {
				return
			}
		}
	}
}

// Day returns the group for key (2006-01-02).
func (s *Store) Day(key string) (DayGroup, bool) {
	for g := range s.GroupByDay() {
		if g.Key == key {
			return g, true
		}
	}
	return DayGroup{}, false
}

func (s *Store) Export() Export {
	messages := s.Messages()
	if messages == nil {
		messages = []Message{}
	}
	return Export{
		ExportedAt:    s.now().UTC(),
		TotalMessages: len(messages),
		ChatHistory:   messages,
	}
}

// Location returns the location used for calendar days.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Reload re-reads the durable log, notifying listeners if it changed.
func (s *Store) Reload() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	messages, err := s.load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if slices.EqualFunc(s.messages, messages, Message.equal) {
		s.mu.Unlock()
		return nil
	}
	s.messages = messages
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	notify(listeners, Event{Kind: EventReload, Len: len(messages)})
	return nil
}

// AddOnChangeListener registers listener. Listeners are called in mutation
// order and must not write to the store.
func (s *Store) AddOnChangeListener(listener OnChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func notify(listeners []OnChangeListener, e Event) {
	for _, l := range listeners {
		l.OnHistoryChange(e)
	}
}

// load returns an empty log when the key is missing or cannot be decoded.
// Undecodable content is kept under KeyChatHistoryCorrupt before the log
// starts over. Entries with an unknown sender are dropped.
func (s *Store) load() ([]Message, error) {
	data, found, err := s.kv.Get(kv.KeyChatHistory)
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}
	if !found {
		return nil, nil
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		slog.Warn("chat history is corrupted, starting empty", "error", err, "savedAs", kv.KeyChatHistoryCorrupt)
		if err := s.quarantine(data); err != nil {
			return nil, err
		}
		return nil, nil
	}

	valid := messages[:0]
	for _, m := range messages {
		if !m.Sender.IsValid() {
			slog.Warn("dropping chat message with unknown sender", "sender", m.Sender)
			continue
		}
		valid = append(valid, m)
	}
	return valid, nil
}

// quarantine moves an undecodable log aside so the next save cannot
// overwrite it.
func (s *Store) quarantine(data []byte) error {
	if err := s.kv.Set(kv.KeyChatHistoryCorrupt, data); err != nil {
		return fmt.Errorf("keep corrupted chat history: %w", err)
	}
	if err := s.kv.Delete(kv.KeyChatHistory); err != nil {
		return fmt.Errorf("remove corrupted chat history: %w", err)
	}
	return nil
}

func (s *Store) save(messages []Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	if err := s.kv.Set(kv.KeyChatHistory, data); err != nil {
		return &apperr.PersistenceWarning{Key: kv.KeyChatHistory, Err: err}
	}
	return nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
