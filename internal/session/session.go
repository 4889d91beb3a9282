// Package session models the chat client's local state: the ordered
// message history, the theme flag, the draft input, and the send cooldown.
// Persistence goes through the Store interface so the logic can be tested
// against an in-memory fake and deployed against Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fixed storage keys, one for the message history and one for the theme.
const (
	HistoryKey = "chat_history"
	ThemeKey   = "chat_theme"
)

// DefaultCooldown is the minimum interval between sends. A courtesy
// throttle only; the server does not enforce it.
const DefaultCooldown = 3 * time.Second

const errorReplyText = "Error connecting to AI. Try again later."

var (
	// ErrCooldown is returned when a send is attempted before the
	// cooldown has elapsed. The sender is never invoked in that case.
	ErrCooldown = errors.New("please wait a moment before sending again")

	// ErrEmptyMessage is returned when the draft is blank.
	ErrEmptyMessage = errors.New("message is empty")
)

// Message is one entry in the conversation history.
type Message struct {
	Role string `json:"role"` // "user" or "ai"
	Text string `json:"text"`
	Time string `json:"time"`
}

// Store persists session state under fixed keys. Load returns "" with a
// nil error when the key has never been saved.
type Store interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// Sender delivers one message to the chat backend and returns the reply
// text. One blocking call per send.
type Sender interface {
	Send(ctx context.Context, message string) (string, error)
}

// Session owns the client-local conversation state. Not safe for
// concurrent use; a session belongs to a single user interaction loop.
type Session struct {
	store    Store
	cooldown time.Duration
	now      func() time.Time

	messages []Message
	dark     bool
	draft    string
	lastSent time.Time
}

func New(store Store, cooldown time.Duration) *Session {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Session{
		store:    store,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Restore loads persisted history and theme. A session with nothing
// persisted restores to an empty history and light theme.
func (s *Session) Restore(ctx context.Context) error {
	raw, err := s.store.Load(ctx, HistoryKey)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.messages); err != nil {
			return fmt.Errorf("failed to decode history: %w", err)
		}
	}

	theme, err := s.store.Load(ctx, ThemeKey)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}
	s.dark = theme == "dark"

	return nil
}

// Send submits the current draft through the sender. The cooldown is
// checked before any network call; a rejected send leaves the draft and
// history untouched. A sender failure is recovered locally: a synthetic
// error message is appended in place of a reply.
func (s *Session) Send(ctx context.Context, sender Sender) (Message, error) {
	text := strings.TrimSpace(s.draft)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	if !s.lastSent.IsZero() && s.now().Sub(s.lastSent) < s.cooldown {
		return Message{}, ErrCooldown
	}
	s.lastSent = s.now()

	s.append(Message{Role: "user", Text: text, Time: s.timestamp()})
	s.draft = ""

	reply, err := sender.Send(ctx, text)
	if err != nil {
		reply = errorReplyText
	}

	aiMsg := Message{Role: "ai", Text: reply, Time: s.timestamp()}
	s.append(aiMsg)

	if err := s.persistHistory(ctx); err != nil {
		return aiMsg, err
	}
	return aiMsg, nil
}

// Clear empties the in-memory history and the persisted copy.
func (s *Session) Clear(ctx context.Context) error {
	s.messages = nil
	if err := s.store.Clear(ctx, HistoryKey); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// SetTheme flips the dark-mode flag and persists it, independent of the
// message history.
func (s *Session) SetTheme(ctx context.Context, dark bool) error {
	s.dark = dark
	value := "light"
	if dark {
		value = "dark"
	}
	if err := s.store.Save(ctx, ThemeKey, value); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

func (s *Session) Dark() bool {
	return s.dark
}

func (s *Session) SetDraft(text string) {
	s.draft = text
}

func (s *Session) Draft() string {
	return s.draft
}

// Messages returns a copy of the history in insertion order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Export renders the conversation as "[time] role: text" lines.
func (s *Session) Export() string {
	var b strings.Builder
	for i, m := range s.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s] %s: %s", m.Time, m.Role, m.Text)
	}
	return b.String()
}

func (s *Session) append(m Message) {
	s.messages = append(s.messages, m)
}

func (s *Session) persistHistory(ctx context.Context) error {
	data, err := json.Marshal(s.messages)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.store.Save(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *Session) timestamp() string {
	return s.now().Format("15:04:05")
}
