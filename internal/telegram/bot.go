package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ai-assistant/internal/language"
	"ai-assistant/internal/llm"
	"ai-assistant/internal/store"
	"ai-assistant/internal/storage"
)

const (
	newChatCmd  = "newchat"
	statsCmd    = "stats"
	settingsCmd = "settings"
	helpCmd     = "help"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	st          *store.Store
	llmClient   llm.Client
	recorder    storage.Recorder
	adminUserID int64
	parseMode   string
	model       string
}

func New(botToken string, st *store.Store, llmClient llm.Client, rec storage.Recorder, adminUserID int64, parseMode, model string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:         api,
		s:           botAPISender{api: api},
		st:          st,
		llmClient:   llmClient,
		recorder:    rec,
		adminUserID: adminUserID,
		parseMode:   parseMode,
		model:       model,
	}, nil
}

// Start consumes updates until the channel closes. Each update gets its own
// goroutine that runs to completion; there is no cancellation of an
// in-flight message and no queueing beyond Telegram's own delivery rate.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	log.Printf("🚀 AI assistant bot started as @%s", b.api.Self.UserName)
	for update := range updates {
		go b.handleUpdate(ctx, update)
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// One message's failure must never take the process down.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic while handling update %d: %v", update.UpdateID, r)
		}
	}()

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) parseModeValue() string {
	return b.parseMode
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseModeValue()
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// editMessage replaces an earlier message in place, retrying without a parse
// mode when Telegram rejects the markup.
func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = b.parseModeValue()
	if _, err := b.s.Send(edit); err != nil {
		log.Printf("failed to edit message %d, retrying as plain text: %v", messageID, err)
		plain := tgbotapi.NewEditMessageText(chatID, messageID, text)
		if _, err := b.s.Send(plain); err != nil {
			log.Printf("failed to edit message %d: %v", messageID, err)
		}
	}
}

func (b *Bot) menuKeyboard(cat language.Category) tgbotapi.InlineKeyboardMarkup {
	if cat == language.Georgian {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑️ ახალი საუბარი", newChatCmd),
				tgbotapi.NewInlineKeyboardButtonData("📊 სტატისტიკა", statsCmd),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⚙️ პარამეტრები", settingsCmd),
				tgbotapi.NewInlineKeyboardButtonData("ℹ️ დახმარება", helpCmd),
			),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ New Chat", newChatCmd),
			tgbotapi.NewInlineKeyboardButtonData("📊 Statistics", statsCmd),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", settingsCmd),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Help", helpCmd),
		),
	)
}
