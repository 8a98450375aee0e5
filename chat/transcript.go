// Package chat holds the assistant widget's conversation state and the mocked
// model backends behind it.
package chat

import (
	"sync"
	"time"
)

// Message is one transcript entry.
type Message struct {
	Text     string    `json:"text"`
	FromUser bool      `json:"fromUser"`
	At       time.Time `json:"at"`
}

// Transcript is an ordered, append-only message list plus a typing flag.
// It is safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	loading  bool
	now      func() time.Time
}

// NewTranscript starts a transcript with an assistant greeting, if any.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{now: time.Now}
	if greeting != "" {
		t.AppendReply(greeting)
	}
	return t
}

func (t *Transcript) AppendUser(text string) Message {
	return t.append(text, true)
}

func (t *Transcript) AppendReply(text string) Message {
	return t.append(text, false)
}

func (t *Transcript) append(text string, fromUser bool) Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := Message{Text: text, FromUser: fromUser, At: t.now()}
	t.messages = append(t.messages, m)
	return m
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Transcript) SetLoading(loading bool) {
	t.mu.Lock()
	t.loading = loading
	t.mu.Unlock()
}

// Loading reports whether a reply is being awaited.
func (t *Transcript) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}
