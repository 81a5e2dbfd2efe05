package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"aichat/internal/domain"
	"aichat/internal/domain/models"
)

// Provider calls Claude models via the Anthropic messages API.
type Provider struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewProvider creates an Anthropic provider.
func NewProvider(apiKey, model string, maxTokens int) *Provider {
	return &Provider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "anthropic"
}

// Generate performs one messages call with the history as alternating
// messages and the chat instruction as system prompt.
func (p *Provider) Generate(ctx context.Context, history []models.Message, newMessage, instruction string) (string, error) {
	if p.apiKey == "" {
		return "", domain.ErrMissingCredential
	}

	messages := convertHistory(history)
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(newMessage)))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages:  messages,
	}
	if instruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: instruction},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusUnauthorized {
				return "", domain.ErrProviderUnauthorized
			}
			return "", &domain.CompletionError{Status: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	return extractText(msg), nil
}

// convertHistory maps chat messages to Anthropic message params. Anthropic
// has no system role inside the message list, so anything that is not an
// assistant message is sent as a user message.
func convertHistory(history []models.Message) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range history {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == models.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}
	return messages
}

// extractText concatenates the text content blocks of the response. A
// response without text blocks yields "".
func extractText(msg *anthropic.Message) string {
	if msg == nil {
		return ""
	}

	var b strings.Builder
	for _, content := range msg.Content {
		if content.Type == "text" {
			b.WriteString(content.Text)
		}
	}
	return b.String()
}
