package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranscript_Greeting(t *testing.T) {
	tr := NewTranscript("Hello! How can I assist you today?")
	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].FromUser)
	assert.Equal(t, "Hello! How can I assist you today?", msgs[0].Text)

	assert.Equal(t, 0, NewTranscript("").Len())
}

func TestTranscript_MessagesIsACopy(t *testing.T) {
	tr := NewTranscript("")
	tr.AppendUser("one")
	msgs := tr.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "one", tr.Messages()[0].Text)
}

func TestKeywordResponder(t *testing.T) {
	r := KeywordResponder{Model: "open-mistral-8x7b"}
	tests := []struct {
		in   string
		want string
	}{
		{"Hello!", "Hello there!"},
		{"HI", "Hello there!"},
		{"how are you", "I'm just an AI assistant"},
		{"ok bye", "Goodbye!"},
		{"I need help", "I can help you with information"},
		{"are you an LLM", "large language model"},
		{"tell me a joke", "I'm analyzing your message"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.Reply(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}

	got, err := r.Reply(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Contains(t, got, "open-mistral-8x7b")
}

func TestConversation_Send(t *testing.T) {
	tr := NewTranscript("greeting")
	conv := NewConversation(tr, KeywordResponder{Model: "m"}, testLogger())

	reply, err := conv.Send(context.Background(), "bye")
	require.NoError(t, err)
	assert.False(t, reply.FromUser)
	assert.Contains(t, reply.Text, "Goodbye!")

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "bye", msgs[1].Text)
	assert.True(t, msgs[1].FromUser)
	assert.False(t, tr.Loading())
}

func TestConversation_RejectsEmpty(t *testing.T) {
	tr := NewTranscript("")
	conv := NewConversation(tr, KeywordResponder{}, testLogger())
	_, err := conv.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, tr.Len())
}

func TestConversation_LoadingWhileWaiting(t *testing.T) {
	tr := NewTranscript("")
	release := make(chan struct{})
	entered := make(chan struct{})
	conv := NewConversation(tr, ResponderFunc(func(ctx context.Context, text string) (string, error) {
		close(entered)
		<-release
		return "done", nil
	}), testLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = conv.Send(context.Background(), "question")
	}()

	<-entered
	assert.True(t, tr.Loading())
	close(release)
	wg.Wait()
	assert.False(t, tr.Loading())
	assert.Equal(t, 2, tr.Len())
}

func TestConversation_ResponderError(t *testing.T) {
	tr := NewTranscript("")
	boom := errors.New("boom")
	conv := NewConversation(tr, ResponderFunc(func(context.Context, string) (string, error) {
		return "", boom
	}), testLogger())

	_, err := conv.Send(context.Background(), "question")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, tr.Len())
	assert.False(t, tr.Loading())
}

func TestConversation_Cancelled(t *testing.T) {
	conv := NewConversation(NewTranscript(""), KeywordResponder{Delay: time.Hour}, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := conv.Send(ctx, "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCompleter(t *testing.T) {
	c := Completer{}
	out, err := c.Complete(context.Background(), ModelGPT4o, "black holes", "Explain black holes.")
	require.NoError(t, err)
	assert.Contains(t, out, `about "black holes"`)
	assert.Contains(t, out, "connected to the GPT-4o API")
	assert.Contains(t, out, "Your prompt was:\nExplain black holes.\n\n")

	_, err = c.Complete(context.Background(), "gpt-2", "x", "y")
	assert.ErrorIs(t, err, ErrUnknownModel)
}
