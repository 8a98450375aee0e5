package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/complytime/prompt-generator-mcp-server/internal/latency"
)

// Responder produces the assistant's reply to the latest user message.
type Responder interface {
	Reply(ctx context.Context, text string) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, text string) (string, error)

func (f ResponderFunc) Reply(ctx context.Context, text string) (string, error) { return f(ctx, text) }

type keywordRule struct {
	keywords []string
	reply    func(model string) string
}

// Rules are tried in order; the first rule with any matching keyword wins.
var keywordRules = []keywordRule{
	{
		keywords: []string{"hello", "hi"},
		reply: func(model string) string {
			return fmt.Sprintf("Hello there! I'm your AI assistant powered by the %s model. How can I help you today?", model)
		},
	},
	{
		keywords: []string{"how are you"},
		reply: func(string) string {
			return "I'm just an AI assistant, but thanks for asking! I'm here and ready to assist you with any questions or tasks you might have."
		},
	},
	{
		keywords: []string{"bye"},
		reply: func(string) string {
			return "Goodbye! Feel free to return if you have more questions. I'll be here to assist you."
		},
	},
	{
		keywords: []string{"help"},
		reply: func(string) string {
			return "I can help you with information, answering questions, brainstorming ideas, or solving problems. Just let me know what you'd like assistance with!"
		},
	},
	{
		keywords: []string{"mistral", "llm"},
		reply: func(model string) string {
			return fmt.Sprintf("I'm powered by the %s large language model, which is designed to provide helpful, accurate, and safe responses to a wide variety of questions and tasks.", model)
		},
	},
}

func fallbackReply(model string) string {
	return fmt.Sprintf("I'm analyzing your message using the %s model. In a full implementation, I would provide a detailed response based on that powerful language model. How else can I assist you today?", model)
}

// KeywordResponder answers with canned replies picked by case-insensitive
// substring match, after a simulated delay.
type KeywordResponder struct {
	Model string
	Delay time.Duration
}

func (r KeywordResponder) Reply(ctx context.Context, text string) (string, error) {
	if err := latency.Wait(ctx, r.Delay); err != nil {
		return "", err
	}
	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply(r.Model), nil
			}
		}
	}
	return fallbackReply(r.Model), nil
}
