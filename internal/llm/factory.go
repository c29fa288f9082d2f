package llm

import (
	"fmt"

	"ai-assistant/internal/config"
)

// NewClient builds the completion client for the configured provider.
// Missing credentials surface here so the process refuses to start
// instead of failing per-request.
func NewClient(cfg *config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.AnthropicModel, cfg.MaxTokens, cfg.Temperature)
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.MaxTokens, cfg.Temperature)
	case config.ProviderYandex:
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
