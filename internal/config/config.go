package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderAnthropic LLMProvider = "anthropic"
	ProviderOpenAI    LLMProvider = "openai"
	ProviderYandex    LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	AdminUserID      int64  `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"anthropic"`
	AnthropicAPIKey  string      `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string      `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.langdock.com/anthropic/eu/"`
	AnthropicModel   string      `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Decoding parameters applied to every completion request
	MaxTokens   int     `env:"MAX_TOKENS" envDefault:"3000"`
	Temperature float32 `env:"TEMPERATURE" envDefault:"0.7"`

	// Storage
	DBPath      string `env:"DB_PATH" envDefault:"data/assistant.db"`
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/log.jsonl"`

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
