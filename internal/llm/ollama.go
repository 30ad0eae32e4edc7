package llm

import (
	"context"
	"fmt"
	"strings"

	"legal-publication-bot/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

// OllamaProvider talks to a locally hosted Ollama instance through its
// OpenAI-compatible /v1 API.
type OllamaProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOllamaProvider creates a provider for the configured local endpoint
func NewOllamaProvider(cfg models.OllamaConfig) *OllamaProvider {
	config := openai.DefaultConfig("ollama") // Ollama ignores the key but the client requires one
	config.BaseURL = strings.TrimRight(cfg.URL, "/") + "/v1"

	return &OllamaProvider{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Generate sends the prompt as a single user message and returns the raw
// model reply.
func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("ollama completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Ping verifies the endpoint answers and the configured model is installed
func (p *OllamaProvider) Ping(ctx context.Context) error {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}

	base := strings.SplitN(p.model, ":", 2)[0]
	for _, m := range list.Models {
		if strings.HasPrefix(m.ID, base) {
			return nil
		}
	}

	return fmt.Errorf("ollama model %q not installed", p.model)
}
