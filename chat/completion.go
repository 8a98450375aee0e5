package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/complytime/prompt-generator-mcp-server/internal/latency"
)

var ErrUnknownModel = errors.New("unknown model")

const (
	ModelClaudeSonnet = "Claude-3.7-Sonnet"
	ModelGPT4o        = "GPT-4o"
	ModelGPT4oMini    = "GPT-4o-mini"
)

// Models lists the targets a generated prompt can be sent to.
func Models() []string {
	return []string{ModelClaudeSonnet, ModelGPT4o, ModelGPT4oMini}
}

func ValidModel(model string) error {
	if slices.Contains(Models(), model) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownModel, model)
}

// Completer stands in for a real completion API.
type Completer struct {
	Delay time.Duration
}

// Complete returns a simulated answer to an assembled prompt.
func (c Completer) Complete(ctx context.Context, model, topic, prompt string) (string, error) {
	if err := ValidModel(model); err != nil {
		return "", err
	}
	if err := latency.Wait(ctx, c.Delay); err != nil {
		return "", err
	}
	return fmt.Sprintf("This is a simulated response to your prompt about %q. "+
		"In a real implementation, this would be connected to the %s API.\n\n"+
		"Your prompt was:\n%s\n\n"+
		"With a proper API integration, you would receive an actual AI-generated response based on your prompt configuration.",
		topic, model, prompt), nil
}
