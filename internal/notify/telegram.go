// Package notify delivers reports to Telegram and long-polls it for inbound
// chat questions.
package notify

import (
	"context"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mail-signal-bot/internal/errs"
	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/trace"
)

// interChunkDelay spaces sequential chunk sends to stay under rate limits.
const interChunkDelay = 500 * time.Millisecond

// Telegram implements interfaces.Messenger for one authorized chat.
type Telegram struct {
	bot         *tgbotapi.BotAPI
	chatID      int64
	maxLen      int
	pollTimeout int
}

// Compile-time interface check
var _ interfaces.Messenger = (*Telegram)(nil)

// New builds the Telegram client. The bot token comes from
// TELEGRAM_BOT_TOKEN; chatID is the single chat allowed to talk to the bot.
func New(chatID int64, maxLen, pollTimeoutSeconds int) (*Telegram, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, &errs.ConfigError{Key: "TELEGRAM_BOT_TOKEN"}
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errs.External("telegram", "", err)
	}
	return &Telegram{
		bot:         bot,
		chatID:      chatID,
		maxLen:      maxLen,
		pollTimeout: pollTimeoutSeconds,
	}, nil
}

// Send delivers text to the authorized chat, splitting it into line-bounded
// chunks when it exceeds the length budget. Each chunk is awaited before the
// next goes out.
func (t *Telegram) Send(ctx context.Context, text string) error {
	ctx, span := trace.StartSpan(ctx, "telegram-send")
	defer span.End()

	chunks := SplitMessage(text, t.maxLen)
	if len(chunks) > 1 {
		logger.Info(ctx, "Message exceeds length budget, sending in chunks", "chunks", len(chunks))
	}

	for i, chunk := range chunks {
		if i > 0 {
			select {
			case <-time.After(interChunkDelay):
			case <-ctx.Done():
				return errs.External("telegram", "", ctx.Err())
			}
		}
		msg := tgbotapi.NewMessage(t.chatID, chunk)
		msg.DisableWebPagePreview = true
		if _, err := t.bot.Send(msg); err != nil {
			return errs.External("telegram", "", err)
		}
	}

	logger.Debug(ctx, "Telegram message delivered", "chat_id", t.chatID, "chunks", len(chunks))
	return nil
}

// SplitMessage splits text into chunks of at most max bytes, breaking only
// at line boundaries. A single line longer than max is hard-split as a last
// resort. Joining the chunks' lines back with newlines reproduces the input.
func SplitMessage(text string, max int) []string {
	if len(text) <= max {
		return []string{text}
	}

	var chunks []string
	current := ""
	for _, line := range strings.Split(text, "\n") {
		for len(line)+1 > max {
			// Pathological single line; flush what we have and hard-split.
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, line[:max-1]+"\n")
			line = line[max-1:]
		}
		if len(current)+len(line)+1 > max {
			chunks = append(chunks, current)
			current = ""
		}
		current += line + "\n"
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// Listen long-polls Telegram for inbound messages and hands each question
// from the authorized chat to handle, sending its reply back. Messages from
// any other chat are ignored. Blocks until ctx is cancelled.
func (t *Telegram) Listen(ctx context.Context, handle func(ctx context.Context, question string) (string, error)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.pollTimeout
	updates := t.bot.GetUpdatesChan(u)

	logger.Info(ctx, "Listening for chat questions", "chat_id", t.chatID)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			if update.Message.Chat.ID != t.chatID {
				logger.Warn(ctx, "Ignoring message from unauthorized chat", "chat_id", update.Message.Chat.ID)
				continue
			}
			question := strings.TrimSpace(update.Message.Text)
			if question == "" {
				continue
			}

			answer, err := handle(ctx, question)
			if err != nil {
				logger.ErrorWithErr(ctx, "Failed to answer chat question", err)
				continue
			}
			if err := t.Send(ctx, answer); err != nil {
				logger.ErrorWithErr(ctx, "Failed to send chat answer", err)
			}
		}
	}
}
