package telegram

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ai-assistant/internal/format"
	"ai-assistant/internal/language"
	"ai-assistant/internal/llm"
	"ai-assistant/internal/prompt"
	"ai-assistant/internal/store"
	"ai-assistant/internal/storage"
)

func profileFrom(u *tgbotapi.User) store.Profile {
	return store.Profile{
		UserID:    u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// commandLanguage classifies the free-form arguments of a command; a bare
// command carries no usable script to detect.
func commandLanguage(msg *tgbotapi.Message) language.Category {
	if args := msg.CommandArguments(); args != "" {
		return language.Detect(args)
	}
	return language.Mixed
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "newchat":
		b.handleNewChat(ctx, msg)
	case "stats":
		b.handleStats(ctx, msg)
	case "help":
		b.sendMessage(msg.Chat.ID, helpText)
	default:
		b.sendMessage(msg.Chat.ID, helpText)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.st.EnsureProfile(ctx, profileFrom(msg.From)); err != nil {
		log.Printf("failed to sync profile for %d: %v", msg.From.ID, err)
	}
	cat := commandLanguage(msg)

	fullName := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	out := tgbotapi.NewMessage(msg.Chat.ID, welcomeText(cat, fullName, b.model))
	out.ParseMode = b.parseModeValue()
	out.ReplyMarkup = b.menuKeyboard(cat)
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send welcome: %v", err)
	}
}

func (b *Bot) handleNewChat(ctx context.Context, msg *tgbotapi.Message) {
	cat := commandLanguage(msg)
	if err := b.st.ClearContext(ctx, msg.From.ID); err != nil {
		log.Printf("failed to clear context for %d: %v", msg.From.ID, err)
		b.sendMessage(msg.Chat.ID, genericErrorText(cat))
		return
	}
	b.sendMessage(msg.Chat.ID, contextClearedText(cat))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	cat := commandLanguage(msg)
	stats, err := b.st.Stats(ctx, msg.From.ID)
	if errors.Is(err, store.ErrProfileNotFound) {
		b.sendMessage(msg.Chat.ID, noStatsText)
		return
	}
	if err != nil {
		log.Printf("failed to read stats for %d: %v", msg.From.ID, err)
		b.sendMessage(msg.Chat.ID, genericErrorText(cat))
		return
	}
	b.sendMessage(msg.Chat.ID, statsText(cat, stats))
}

// handleIncomingMessage drives one conversation turn: profile sync, language
// detection, a thinking placeholder, context assembly, the completion call,
// context update and the in-place final edit.
func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	// Profile sync is best-effort: a failure here should not block a reply.
	if err := b.st.EnsureProfile(ctx, profileFrom(msg.From)); err != nil {
		log.Printf("failed to sync profile for %d: %v", userID, err)
	}

	cat := language.Detect(msg.Text)
	log.Printf("Incoming message from %d (@%s, %s): %q", userID, msg.From.UserName, cat, msg.Text)

	thinking, err := b.s.Send(tgbotapi.NewMessage(msg.Chat.ID, thinkingText(cat)))
	if err != nil {
		log.Printf("failed to send thinking placeholder: %v", err)
		return
	}

	resp, err := b.converse(ctx, userID, cat, msg.Text)
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			log.Printf("completion endpoint error for %d: %v", userID, err)
			b.editMessage(msg.Chat.ID, thinking.MessageID, apiErrorText(cat))
			return
		}
		log.Printf("failed to process message from %d: %v", userID, err)
		b.editMessage(msg.Chat.ID, thinking.MessageID, genericErrorText(cat))
		return
	}

	log.Printf("LLM response [model=%s, tokens: prompt=%d, completion=%d, total=%d]",
		resp.Model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)
	b.editMessage(msg.Chat.ID, thinking.MessageID, format.TelegramHTML(resp.Content))
}

// converse appends the user turn, assembles bootstrap plus retained history,
// requests a completion and records the assistant turn. On any failure the
// user turn stays recorded with no assistant turn after it; the next request
// replays it as unanswered context.
func (b *Bot) converse(ctx context.Context, userID int64, cat language.Category, text string) (llm.Response, error) {
	if err := b.st.AppendTurn(ctx, userID, store.RoleUser, text); err != nil {
		return llm.Response{}, err
	}
	turns, err := b.st.Context(ctx, userID)
	if err != nil {
		return llm.Response{}, err
	}

	msgs := prompt.Bootstrap(cat)
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: string(t.Role), Content: t.Content})
	}

	resp, err := b.llmClient.Generate(ctx, msgs)
	if err != nil {
		return llm.Response{}, err
	}

	if err := b.st.AppendTurn(ctx, userID, store.RoleAssistant, resp.Content); err != nil {
		return llm.Response{}, err
	}

	if b.recorder != nil {
		_ = b.recorder.AppendInteraction(storage.Event{
			Timestamp:         time.Now().UTC(),
			UserID:            userID,
			Language:          string(cat),
			UserMessage:       text,
			AssistantResponse: resp.Content,
			Model:             resp.Model,
			TotalTokens:       resp.TotalTokens,
		})
	}
	return resp, nil
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case newChatCmd:
		if err := b.st.ClearContext(ctx, userID); err != nil {
			log.Printf("failed to clear context for %d: %v", userID, err)
			b.answerCallback(cb.ID, "")
			b.editMessage(chatID, cb.Message.MessageID, genericErrorText(language.Mixed))
			return
		}
		b.answerCallback(cb.ID, "🗑️ Context cleared!")
		b.editMessage(chatID, cb.Message.MessageID, contextClearedText(language.Mixed))
	case statsCmd:
		b.answerCallback(cb.ID, "")
		stats, err := b.st.Stats(ctx, userID)
		if errors.Is(err, store.ErrProfileNotFound) {
			b.editMessage(chatID, cb.Message.MessageID, noStatsText)
			return
		}
		if err != nil {
			log.Printf("failed to read stats for %d: %v", userID, err)
			b.editMessage(chatID, cb.Message.MessageID, genericErrorText(language.Mixed))
			return
		}
		b.editMessage(chatID, cb.Message.MessageID, statsText(language.Mixed, stats))
	case settingsCmd:
		b.answerCallback(cb.ID, "")
		prefs, err := b.st.Preferences(ctx, userID)
		if err != nil {
			log.Printf("failed to read preferences for %d: %v", userID, err)
			b.editMessage(chatID, cb.Message.MessageID, genericErrorText(language.Mixed))
			return
		}
		b.editMessage(chatID, cb.Message.MessageID, settingsText(prefs))
	case helpCmd:
		b.answerCallback(cb.ID, "")
		b.editMessage(chatID, cb.Message.MessageID, helpText)
	default:
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.s.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
}
