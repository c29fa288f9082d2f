package config

import (
	"os"
	"testing"

	"github.com/caarlos0/env/v6"
)

func TestDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("default provider = %q, want anthropic", cfg.LLMProvider)
	}
	if cfg.AnthropicModel != "claude-3-5-sonnet-20241022" {
		t.Errorf("unexpected default model: %q", cfg.AnthropicModel)
	}
	if cfg.MaxTokens != 3000 {
		t.Errorf("MaxTokens = %d, want 3000", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.MessageParseMode != "HTML" {
		t.Errorf("MessageParseMode = %q, want HTML", cfg.MessageParseMode)
	}
}

func TestRequiredToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "x")
	os.Unsetenv("TELEGRAM_BOT_TOKEN")

	cfg := &Config{}
	if err := env.Parse(cfg); err == nil {
		t.Fatal("expected error when TELEGRAM_BOT_TOKEN is missing")
	}
}
