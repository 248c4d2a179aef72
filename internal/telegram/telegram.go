package telegram

import (
	"context"
	"fmt"

	"github.com/futig/behavior-profile/internal/auth"
	"github.com/futig/behavior-profile/internal/config"
	"github.com/futig/behavior-profile/internal/telegram/bot"
	"github.com/futig/behavior-profile/internal/telegram/handlers"
	"github.com/futig/behavior-profile/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	storage state.Storage,
	usecase handlers.QuestionnaireUsecase,
	tokens *auth.TokenStore,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	deps := handlers.Deps{
		Bot:          b.API(),
		StateManager: state.NewManager(storage),
		Usecase:      usecase,
		Tokens:       tokens,
		Keyboard:     b.Keyboard(),
		Logger:       logger,
	}

	b.RegisterHandler(handlers.NewCommandHandler(deps))
	b.RegisterHandler(handlers.NewCallbackHandler(deps))

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
