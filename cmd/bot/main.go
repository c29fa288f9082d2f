package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"ai-assistant/internal/config"
	"ai-assistant/internal/llm"
	"ai-assistant/internal/scheduler"
	"ai-assistant/internal/storage"
	"ai-assistant/internal/store"
	"ai-assistant/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()
	if err := st.InitSchema(); err != nil {
		log.Fatalf("failed to init schema: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	model := cfg.AnthropicModel
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		model = cfg.OpenAIModel
	case config.ProviderYandex:
		model = "yandexgpt-lite"
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		st,
		llmClient,
		rec,
		cfg.AdminUserID,
		cfg.MessageParseMode,
		model,
	)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	sched := scheduler.New(st)
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	bot.Start(context.Background())
}
