package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/behavior-profile/internal/config"
	"github.com/futig/behavior-profile/internal/telegram/handlers"
	"github.com/futig/behavior-profile/internal/telegram/keyboard"
	"github.com/futig/behavior-profile/internal/telegram/middleware"
	"github.com/futig/behavior-profile/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	handlers    map[string]handlers.Handler
	keyboard    *keyboard.Builder
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	slots       chan struct{}
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(cfg *config.TelegramConfig, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	maxConcurrent := cfg.MaxConcurrentUsers
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	bot := &Bot{
		api:      api,
		cfg:      cfg,
		keyboard: keyboard.NewBuilder(),
		logger:   logger,
		handlers: make(map[string]handlers.Handler),
		slots:    make(chan struct{}, maxConcurrent),
		stopChan: make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts long polling
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	// a webhook left over from another deployment blocks getUpdates
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates handles each update in its own goroutine, at most
// MaxConcurrentUsers at a time
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}

			select {
			case b.slots <- struct{}{}:
			case <-b.stopChan:
				return
			}

			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer func() {
					<-b.slots
					b.wg.Done()
				}()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage routes commands; the assessment itself is driven by buttons
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	ctx = ctxzap.ToContext(ctx, b.logger.With(zap.Int64("user_id", message.From.ID)))

	if !message.IsCommand() {
		b.sendMessage(message.Chat.ID, render.MsgHelp, nil)
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
		Command:   message.Command(),
		Args:      message.CommandArguments(),
	}
	b.dispatch(ctx, handlers.HandlerStateCommand, msg)
}

// handleCallbackQuery handles callback button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, "")
		return
	}

	ctx = ctxzap.ToContext(ctx, b.logger.With(zap.Int64("user_id", query.From.ID)))

	// answered right away so the client stops its spinner
	b.answerCallback(query.ID, "")

	msg := &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}
	b.dispatch(ctx, handlers.HandlerStateCallback, msg)
}

func (b *Bot) dispatch(ctx context.Context, state string, msg *handlers.Message) {
	handler, exists := b.handlers[state]
	if !exists {
		ctxzap.Warn(ctx, "no handler for state", zap.String("state", state))
		b.sendMessage(msg.ChatID, render.ErrGeneric, nil)
		return
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("state", state),
		)
		b.sendMessage(msg.ChatID, render.ClassifyError(err), nil)
	}
}

// sendMessage sends a message to chat
func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

// RegisterHandler registers a handler for a state
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	state := handler.GetState()

	if !handlers.IsValidState(state) {
		b.logger.Fatal("invalid handler state",
			zap.String("state", state),
		)
	}

	b.handlers[state] = handler
	b.logger.Info("handler registered",
		zap.String("state", state),
	)
}

// API returns the bot API instance (for handlers)
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// Keyboard returns the keyboard builder (for handlers)
func (b *Bot) Keyboard() *keyboard.Builder {
	return b.keyboard
}
