package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"aichat/internal/domain"
	"aichat/internal/domain/models"
)

// Provider calls Google Gemini models. The client is created per call so the
// provider itself holds no connection state.
type Provider struct {
	apiKey string
	model  string
}

// NewProvider creates a Gemini provider.
func NewProvider(apiKey, model string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  model,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "gemini"
}

// Generate sends the new message through a chat session primed with the
// conversation history and the chat instruction as system instruction.
func (p *Provider) Generate(ctx context.Context, history []models.Message, newMessage, instruction string) (string, error) {
	if p.apiKey == "" {
		return "", domain.ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	if instruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(instruction)},
		}
	}

	session := model.StartChat()
	session.History = convertHistory(history)

	resp, err := session.SendMessage(ctx, genai.Text(newMessage))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusUnauthorized {
				return "", domain.ErrProviderUnauthorized
			}
			return "", &domain.CompletionError{Status: apiErr.Code, Message: apiErr.Message}
		}
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	return extractText(resp), nil
}

// convertHistory maps chat messages to genai content. Gemini only knows the
// roles "user" and "model"; assistant messages map to "model" and everything
// else to "user".
func convertHistory(history []models.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents
}

// extractText concatenates the text parts of the first candidate. An empty
// candidate list yields "".
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
