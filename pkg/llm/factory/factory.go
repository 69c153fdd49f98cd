package factory

import (
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/mock"
	"ai-chat-be/pkg/llm/ollama"
	"ai-chat-be/pkg/llm/openai"
	"fmt"
)

type Options struct {
	Provider      string // "ollama", "openai" or "mock"
	Model         string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
}

func NewLLMProvider(opts Options) (llm.LLMProvider, error) {
	switch opts.Provider {
	case "ollama":
		baseURL := opts.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, opts.Model), nil
	case "openai":
		baseURL := opts.OpenAIBaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return openai.NewProvider(baseURL, opts.OpenAIAPIKey, opts.Model), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", opts.Provider)
	}
}
