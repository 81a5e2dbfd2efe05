package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"aichat/internal/completion/prompt"
	"aichat/internal/domain"
	"aichat/internal/domain/models"
)

// Provider calls an OpenAI-compatible chat-completion endpoint. A custom
// base URL lets it serve any compatible inference API, not just OpenAI itself.
type Provider struct {
	client      *openai.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewProvider creates an OpenAI-compatible provider. An empty baseURL uses
// the official OpenAI endpoint.
func NewProvider(apiKey, baseURL, model string, maxTokens int, temperature float64) *Provider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Provider{
		client:      openai.NewClientWithConfig(cfg),
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "openai"
}

// Generate flattens the conversation into a single prompt and performs one
// chat-completion call with it as the sole user message. Chat-only models
// reject the legacy completions endpoint, so the flattened prompt goes
// through the chat API.
func (p *Provider) Generate(ctx context.Context, history []models.Message, newMessage, instruction string) (string, error) {
	if p.apiKey == "" {
		return "", domain.ErrMissingCredential
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.Flatten(history, newMessage, instruction),
			},
		},
		MaxTokens:   p.maxTokens,
		Temperature: float32(p.temperature),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusUnauthorized {
				return "", domain.ErrProviderUnauthorized
			}
			return "", &domain.CompletionError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return "", fmt.Errorf("openai completion: %w", err)
	}

	// An empty or absent completion is not an error.
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
