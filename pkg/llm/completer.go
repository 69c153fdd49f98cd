package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Completer produces one assistant reply for one user message.
type Completer interface {
	Complete(ctx context.Context, message, systemPrompt string) (string, error)
}

// ChatCompleter adapts an LLMProvider to Completer, bounding every call by timeout.
type ChatCompleter struct {
	provider LLMProvider
	timeout  time.Duration
}

var _ Completer = (*ChatCompleter)(nil)

func NewChatCompleter(provider LLMProvider, timeout time.Duration) *ChatCompleter {
	return &ChatCompleter{provider: provider, timeout: timeout}
}

func (c *ChatCompleter) Complete(ctx context.Context, message, systemPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	history := make([]Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		history = append(history, Message{Role: RoleSystem, Content: systemPrompt})
	}
	history = append(history, Message{Role: RoleUser, Content: message})

	reply, err := c.provider.Chat(ctx, history)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyCompletion
	}
	return reply, nil
}
