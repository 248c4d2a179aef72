package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// chat actions expire after 5 seconds
const chatActionInterval = 4 * time.Second

// TypingNotifier sends periodic chat actions to show bot activity
type TypingNotifier struct {
	bot     BotAPI
	chatID  int64
	action  string
	done    chan struct{}
	logger  *zap.Logger
	once    sync.Once
	started bool
}

// NewTypingNotifier creates a new activity indicator; action is one of the
// tgbotapi.Chat* constants
func NewTypingNotifier(bot BotAPI, chatID int64, action string, logger *zap.Logger) *TypingNotifier {
	if action == "" {
		action = tgbotapi.ChatTyping
	}
	return &TypingNotifier{
		bot:    bot,
		chatID: chatID,
		action: action,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start sends the action immediately and then every few seconds until Stop
func (t *TypingNotifier) Start(ctx context.Context) {
	if t.started {
		return
	}
	t.started = true

	t.send()

	go func() {
		ticker := time.NewTicker(chatActionInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.send()
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops sending chat actions. It is safe to call more than once.
func (t *TypingNotifier) Stop() {
	if !t.started {
		return
	}
	t.once.Do(func() { close(t.done) })
}

func (t *TypingNotifier) send() {
	action := tgbotapi.NewChatAction(t.chatID, t.action)
	if _, err := t.bot.Request(action); err != nil {
		t.logger.Warn("failed to send chat action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
