package completion

import (
	"fmt"
	"log/slog"

	"aichat/internal/completion/providers/anthropic"
	"aichat/internal/completion/providers/gemini"
	"aichat/internal/completion/providers/openai"
	"aichat/internal/config"
)

// SetupProvider creates the completion provider named by configuration.
// Defaults for model, token limit and temperature come from the embedded
// registry; COMPLETION_MODEL and COMPLETION_BASE_URL override them.
//
// Supported providers:
//   - "openai"    - any OpenAI-compatible completion endpoint
//   - "gemini"    - Google Gemini models
//   - "anthropic" - Claude models via the Anthropic API
func SetupProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	defaults, err := LoadDefaults(cfg.CompletionProvider)
	if err != nil {
		return nil, err
	}
	if cfg.CompletionModel != "" {
		defaults.Model = cfg.CompletionModel
	}
	if cfg.CompletionBaseURL != "" {
		defaults.BaseURL = cfg.CompletionBaseURL
	}

	var provider Provider
	switch cfg.CompletionProvider {
	case "openai":
		provider = openai.NewProvider(cfg.OpenAIAPIKey, defaults.BaseURL, defaults.Model, defaults.MaxTokens, defaults.Temperature)
	case "gemini":
		provider = gemini.NewProvider(cfg.GeminiAPIKey, defaults.Model)
	case "anthropic":
		provider = anthropic.NewProvider(cfg.AnthropicAPIKey, defaults.Model, defaults.MaxTokens)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.CompletionProvider)
	}

	logger.Info("completion provider configured",
		"provider", provider.Name(),
		"model", defaults.Model,
	)

	return provider, nil
}
