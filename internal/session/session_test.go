package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeSender records calls and returns a scripted reply.
type fakeSender struct {
	reply string
	err   error
	calls int
}

func (f *fakeSender) Send(ctx context.Context, message string) (string, error) {
	f.calls++
	return f.reply, f.err
}

// fakeClock advances manually.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestSession(clock *fakeClock) (*Session, *MemoryStore) {
	store := NewMemoryStore()
	s := New(store, DefaultCooldown)
	if clock != nil {
		s.now = clock.now
	}
	return s, store
}

func TestSend_AppendsUserAndReply(t *testing.T) {
	s, _ := newTestSession(nil)
	sender := &fakeSender{reply: "hello there"}

	s.SetDraft("hi")
	msg, err := s.Send(context.Background(), sender)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if msg.Role != "ai" || msg.Text != "hello there" {
		t.Errorf("Unexpected reply message: %+v", msg)
	}

	history := s.Messages()
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(history))
	}
	if history[0].Role != "user" || history[0].Text != "hi" {
		t.Errorf("Unexpected user message: %+v", history[0])
	}
	if s.Draft() != "" {
		t.Errorf("Expected draft cleared after send, got %q", s.Draft())
	}
}

func TestSend_CooldownRejectsWithoutNetworkCall(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s, _ := newTestSession(clock)
	sender := &fakeSender{reply: "ok"}

	s.SetDraft("first")
	if _, err := s.Send(context.Background(), sender); err != nil {
		t.Fatalf("First send failed: %v", err)
	}

	// 500 ms later, well inside the 3000 ms cooldown.
	clock.advance(500 * time.Millisecond)
	s.SetDraft("second")
	_, err := s.Send(context.Background(), sender)
	if !errors.Is(err, ErrCooldown) {
		t.Fatalf("Expected ErrCooldown, got %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("Expected no network call for rejected send, got %d calls", sender.calls)
	}
	if len(s.Messages()) != 2 {
		t.Errorf("Rejected send must not touch history, got %d messages", len(s.Messages()))
	}
	if s.Draft() != "second" {
		t.Errorf("Rejected send must keep the draft, got %q", s.Draft())
	}
}

func TestSend_AllowedAfterCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s, _ := newTestSession(clock)
	sender := &fakeSender{reply: "ok"}

	s.SetDraft("first")
	s.Send(context.Background(), sender)

	clock.advance(3100 * time.Millisecond)
	s.SetDraft("second")
	if _, err := s.Send(context.Background(), sender); err != nil {
		t.Fatalf("Expected send after cooldown to succeed, got %v", err)
	}
	if sender.calls != 2 {
		t.Errorf("Expected 2 network calls, got %d", sender.calls)
	}
}

func TestSend_EmptyDraft(t *testing.T) {
	s, _ := newTestSession(nil)
	sender := &fakeSender{}

	s.SetDraft("   ")
	_, err := s.Send(context.Background(), sender)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("Expected ErrEmptyMessage, got %v", err)
	}
	if sender.calls != 0 {
		t.Errorf("Expected no network call, got %d", sender.calls)
	}
}

func TestSend_NetworkFailureAppendsSyntheticMessage(t *testing.T) {
	s, _ := newTestSession(nil)
	sender := &fakeSender{err: errors.New("connection refused")}

	s.SetDraft("hi")
	msg, err := s.Send(context.Background(), sender)
	if err != nil {
		t.Fatalf("Send should recover locally, got %v", err)
	}
	if msg.Role != "ai" || !strings.Contains(msg.Text, "Error connecting to AI") {
		t.Errorf("Expected synthetic error message, got %+v", msg)
	}
	if len(s.Messages()) != 2 {
		t.Errorf("Expected user message plus synthetic reply, got %d", len(s.Messages()))
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()

	s := New(store, DefaultCooldown)
	s.SetDraft("hi")
	if _, err := s.Send(context.Background(), &fakeSender{reply: "hello"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := s.SetTheme(context.Background(), true); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}

	// A fresh session over the same store sees the persisted state.
	restored := New(store, DefaultCooldown)
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if len(restored.Messages()) != 2 {
		t.Errorf("Expected 2 restored messages, got %d", len(restored.Messages()))
	}
	if !restored.Dark() {
		t.Error("Expected dark theme to be restored")
	}
}

func TestRestore_EmptyStore(t *testing.T) {
	s, _ := newTestSession(nil)

	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("Restore of empty store failed: %v", err)
	}
	if len(s.Messages()) != 0 || s.Dark() {
		t.Error("Expected empty history and light theme")
	}
}

func TestClear_EmptiesMemoryAndStore(t *testing.T) {
	s, store := newTestSession(nil)
	s.SetDraft("hi")
	s.Send(context.Background(), &fakeSender{reply: "hello"})

	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(s.Messages()) != 0 {
		t.Errorf("Expected empty history, got %d messages", len(s.Messages()))
	}
	if raw, _ := store.Load(context.Background(), HistoryKey); raw != "" {
		t.Errorf("Expected persisted history cleared, got %q", raw)
	}
}

func TestClear_KeepsTheme(t *testing.T) {
	s, store := newTestSession(nil)
	s.SetTheme(context.Background(), true)
	s.Clear(context.Background())

	if theme, _ := store.Load(context.Background(), ThemeKey); theme != "dark" {
		t.Errorf("Clearing history must not touch the theme, got %q", theme)
	}
}

func TestExport_Format(t *testing.T) {
	s, _ := newTestSession(nil)
	s.messages = []Message{
		{Role: "user", Text: "hi", Time: "10:00:00"},
		{Role: "ai", Text: "hello", Time: "10:00:01"},
	}

	got := s.Export()
	want := "[10:00:00] user: hi\n[10:00:01] ai: hello"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestClient_SendAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"reply": "hello", "model": "m1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	reply, err := client.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "hello" {
		t.Errorf("Expected reply 'hello', got %q", reply)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	if _, err := client.Send(context.Background(), "hi"); err == nil {
		t.Error("Expected error for non-200 status")
	}
}
