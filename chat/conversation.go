package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrEmptyMessage = errors.New("message is empty")

// Conversation drives a Transcript with a Responder.
type Conversation struct {
	transcript *Transcript
	responder  Responder
	log        *slog.Logger
}

func NewConversation(transcript *Transcript, responder Responder, baseLog *slog.Logger) *Conversation {
	return &Conversation{
		transcript: transcript,
		responder:  responder,
		log:        baseLog.With("component", "chat"),
	}
}

func (c *Conversation) Transcript() *Transcript { return c.transcript }

// Send records text as a user message, waits for the responder and records
// the reply. A failed reply leaves only the user message behind.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	c.transcript.AppendUser(text)
	c.transcript.SetLoading(true)
	defer c.transcript.SetLoading(false)

	reply, err := c.responder.Reply(ctx, text)
	if err != nil {
		c.log.Error("failed to get reply", "error", err)
		return Message{}, fmt.Errorf("failed to get a response: %w", err)
	}
	c.log.Debug("reply ready", "chars", len(reply))
	return c.transcript.AppendReply(reply), nil
}
