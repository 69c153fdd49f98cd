package mock

import (
	"context"
	"fmt"
	"sync"

	"ai-chat-be/pkg/llm"
)

// Provider answers without any network call. Used for local runs and tests.
type Provider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []llm.Message
}

var _ llm.LLMProvider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{}
}

// WithReply fixes the reply instead of echoing the last user message.
func (p *Provider) WithReply(reply string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reply = reply
	return p
}

func (p *Provider) WithError(err error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return p
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, history...)

	if p.err != nil {
		return "", p.err
	}
	if p.reply != "" {
		return p.reply, nil
	}

	var last string
	for _, m := range history {
		if m.Role == llm.RoleUser {
			last = m.Content
		}
	}
	return fmt.Sprintf("Mock reply to: %s", last), nil
}

func (p *Provider) Calls() []llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]llm.Message, len(p.calls))
	copy(out, p.calls)
	return out
}
